package repository

import (
	"context"

	"github.com/wekeepgrowing/semo-customer/internal/domain/model"
)

// WebhookEventRepository is the delivery ledger for identity-provider webhooks.
type WebhookEventRepository interface {
	// RecordDelivery stores the event on first delivery and bumps the
	// delivery counter on redelivery.
	RecordDelivery(ctx context.Context, eventID, eventType, userID string) error
	GetEvent(ctx context.Context, eventID string) (*model.WebhookEvent, error)
	MarkProcessed(ctx context.Context, eventID string) error
	MarkFailed(ctx context.Context, eventID string, cause error) error
}
