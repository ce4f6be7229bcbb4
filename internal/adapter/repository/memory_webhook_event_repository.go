package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wekeepgrowing/semo-customer/internal/domain/model"
)

// MemoryWebhookEventRepository is an in-memory webhook delivery ledger.
type MemoryWebhookEventRepository struct {
	mu     sync.Mutex
	events map[string]*model.WebhookEvent
	nextID int64
	err    error
}

// NewMemoryWebhookEventRepository creates an empty ledger.
func NewMemoryWebhookEventRepository() *MemoryWebhookEventRepository {
	return &MemoryWebhookEventRepository{events: make(map[string]*model.WebhookEvent)}
}

// WithError makes every subsequent call fail with err. Pass nil to recover.
func (m *MemoryWebhookEventRepository) WithError(err error) *MemoryWebhookEventRepository {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Len returns the number of distinct events recorded.
func (m *MemoryWebhookEventRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func (m *MemoryWebhookEventRepository) RecordDelivery(ctx context.Context, eventID, eventType, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}

	now := time.Now()
	if event, ok := m.events[eventID]; ok {
		event.Deliveries++
		event.UpdatedAt = now
		return nil
	}

	m.nextID++
	m.events[eventID] = &model.WebhookEvent{
		ID:         m.nextID,
		EventID:    eventID,
		EventType:  eventType,
		UserID:     userID,
		Status:     model.WebhookStatusPending,
		Deliveries: 1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return nil
}

func (m *MemoryWebhookEventRepository) GetEvent(ctx context.Context, eventID string) (*model.WebhookEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	event, ok := m.events[eventID]
	if !ok {
		return nil, nil
	}
	clone := *event
	return &clone, nil
}

func (m *MemoryWebhookEventRepository) MarkProcessed(ctx context.Context, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	event, ok := m.events[eventID]
	if !ok {
		return fmt.Errorf("webhook event not found: %s", eventID)
	}
	now := time.Now()
	event.Status = model.WebhookStatusCompleted
	event.ProcessedAt = &now
	event.LastError = nil
	event.UpdatedAt = now
	return nil
}

func (m *MemoryWebhookEventRepository) MarkFailed(ctx context.Context, eventID string, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	event, ok := m.events[eventID]
	if !ok {
		return fmt.Errorf("webhook event not found: %s", eventID)
	}
	msg := cause.Error()
	event.Status = model.WebhookStatusFailed
	event.LastError = &msg
	event.UpdatedAt = time.Now()
	return nil
}
