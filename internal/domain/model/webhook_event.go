package model

import (
	"database/sql/driver"
	"time"
)

// WebhookStatus represents the processing status of a webhook
type WebhookStatus string

const (
	WebhookStatusPending   WebhookStatus = "pending"
	WebhookStatusCompleted WebhookStatus = "completed"
	WebhookStatusFailed    WebhookStatus = "failed"
)

// Scan implements sql.Scanner interface
func (w *WebhookStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*w = WebhookStatus(v)
	case []byte:
		*w = WebhookStatus(v)
	default:
		*w = WebhookStatusPending
	}
	return nil
}

// Value implements driver.Valuer interface
func (w WebhookStatus) Value() (driver.Value, error) {
	return string(w), nil
}

// WebhookEvent records one verified identity-provider webhook delivery.
// EventID is the svix message id, which is stable across redeliveries.
type WebhookEvent struct {
	ID          int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID     string        `gorm:"column:event_id;uniqueIndex:idx_webhook_events_event_id;not null;size:255" json:"event_id"`
	EventType   string        `gorm:"column:event_type;not null;size:100;index" json:"event_type"`
	UserID      string        `gorm:"column:user_id;size:255;index" json:"user_id"`
	Status      WebhookStatus `gorm:"column:status;size:20;not null;index" json:"status"`
	Deliveries  int           `gorm:"column:deliveries;not null" json:"deliveries"`
	LastError   *string       `gorm:"column:last_error" json:"last_error,omitempty"`
	ProcessedAt *time.Time    `gorm:"column:processed_at" json:"processed_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (WebhookEvent) TableName() string {
	return "webhook_events"
}
