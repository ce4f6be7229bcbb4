package webhook

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"time"

	svix "github.com/svix/svix-webhooks/go"
)

// NewTestSecret returns a whsec_ secret usable with NewSvixVerifier.
func NewTestSecret(key string) string {
	return "whsec_" + base64.StdEncoding.EncodeToString([]byte(key))
}

// SignedHeaders produces the headers a svix sender would attach to payload.
// It is used by tests that exercise the receiver end to end.
func SignedHeaders(secret, msgID string, at time.Time, payload []byte) (http.Header, error) {
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, err
	}
	signature, err := wh.Sign(msgID, at, payload)
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	headers.Set(HeaderID, msgID)
	headers.Set(HeaderTimestamp, strconv.FormatInt(at.Unix(), 10))
	headers.Set(HeaderSignature, signature)
	return headers, nil
}
