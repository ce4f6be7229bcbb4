package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wekeepgrowing/semo-customer/internal/domain/model"
	"github.com/wekeepgrowing/semo-customer/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type webhookEventRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewWebhookEventRepository creates a gorm backed webhook delivery ledger
func NewWebhookEventRepository(db *gorm.DB, logger *zap.Logger) repository.WebhookEventRepository {
	return &webhookEventRepository{
		db:     db,
		logger: logger,
	}
}

// RecordDelivery saves a new event or counts a redelivery of a known one
func (r *webhookEventRepository) RecordDelivery(ctx context.Context, eventID, eventType, userID string) error {
	now := time.Now()
	event := &model.WebhookEvent{
		EventID:    eventID,
		EventType:  eventType,
		UserID:     userID,
		Status:     model.WebhookStatusPending,
		Deliveries: 1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "event_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"deliveries": gorm.Expr("webhook_events.deliveries + 1"),
				"updated_at": now,
			}),
		}).
		Create(event).Error

	if err != nil {
		r.logger.Error("Failed to record webhook delivery",
			zap.String("event_id", eventID),
			zap.String("event_type", eventType),
			zap.Error(err))
		return fmt.Errorf("failed to record webhook delivery: %w", err)
	}

	return nil
}

// GetEvent retrieves a webhook event by its delivery id
func (r *webhookEventRepository) GetEvent(ctx context.Context, eventID string) (*model.WebhookEvent, error) {
	var event model.WebhookEvent

	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		First(&event).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get webhook event: %w", err)
	}

	return &event, nil
}

// MarkProcessed marks a webhook event as processed
func (r *webhookEventRepository) MarkProcessed(ctx context.Context, eventID string) error {
	now := time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.WebhookEvent{}).
		Where("event_id = ?", eventID).
		Updates(map[string]interface{}{
			"status":       model.WebhookStatusCompleted,
			"processed_at": &now,
			"last_error":   nil,
			"updated_at":   now,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to mark webhook as processed: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("webhook event not found: %s", eventID)
	}

	return nil
}

// MarkFailed records the provisioning failure for a webhook event
func (r *webhookEventRepository) MarkFailed(ctx context.Context, eventID string, cause error) error {
	errorMsg := cause.Error()

	result := r.db.WithContext(ctx).
		Model(&model.WebhookEvent{}).
		Where("event_id = ?", eventID).
		Updates(map[string]interface{}{
			"status":     model.WebhookStatusFailed,
			"last_error": &errorMsg,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to mark webhook as failed: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("webhook event not found: %s", eventID)
	}

	return nil
}
