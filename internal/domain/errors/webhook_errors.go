package errors

import "errors"

var (
	// ErrWebhookSecretMissing indicates that no signing secret is configured
	ErrWebhookSecretMissing = errors.New("webhook signing secret is not configured")

	// ErrWebhookHeadersMissing indicates a delivery without svix-id, svix-timestamp or svix-signature
	ErrWebhookHeadersMissing = errors.New("webhook signature headers are missing")

	// ErrWebhookSignatureInvalid indicates that the payload does not match its signature
	ErrWebhookSignatureInvalid = errors.New("webhook signature is invalid")
)
