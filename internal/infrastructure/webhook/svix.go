// Package webhook verifies identity provider webhook deliveries.
package webhook

import (
	"fmt"
	"net/http"

	svix "github.com/svix/svix-webhooks/go"
	domainErrors "github.com/wekeepgrowing/semo-customer/internal/domain/errors"
)

const (
	HeaderID        = "svix-id"
	HeaderTimestamp = "svix-timestamp"
	HeaderSignature = "svix-signature"
)

// Verifier authenticates a raw webhook payload against its headers.
type Verifier interface {
	Verify(payload []byte, headers http.Header) error
}

// SvixVerifier checks svix signatures as sent by Clerk. A verifier built
// without a usable secret rejects every delivery.
type SvixVerifier struct {
	wh      *svix.Webhook
	initErr error
}

// NewSvixVerifier never fails; a missing or malformed secret surfaces from
// Verify and from Err.
func NewSvixVerifier(secret string) *SvixVerifier {
	if secret == "" {
		return &SvixVerifier{initErr: domainErrors.ErrWebhookSecretMissing}
	}
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return &SvixVerifier{initErr: fmt.Errorf("invalid webhook secret: %w", err)}
	}
	return &SvixVerifier{wh: wh}
}

// Err reports why the verifier cannot accept deliveries, or nil.
func (v *SvixVerifier) Err() error {
	return v.initErr
}

func (v *SvixVerifier) Verify(payload []byte, headers http.Header) error {
	if headers.Get(HeaderID) == "" || headers.Get(HeaderTimestamp) == "" || headers.Get(HeaderSignature) == "" {
		return domainErrors.ErrWebhookHeadersMissing
	}
	if v.initErr != nil {
		return v.initErr
	}

	// pass only the svix headers so webhook-* fallbacks cannot be smuggled in
	signed := http.Header{}
	signed.Set(HeaderID, headers.Get(HeaderID))
	signed.Set(HeaderTimestamp, headers.Get(HeaderTimestamp))
	signed.Set(HeaderSignature, headers.Get(HeaderSignature))

	if err := v.wh.Verify(payload, signed); err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrWebhookSignatureInvalid, err)
	}
	return nil
}
