package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/semo-customer/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-customer/internal/domain/errors"
)

// MemoryCustomerRepository keeps customers in process memory. It enforces the
// same user id and stripe customer id uniqueness as the SQL schema and is used
// for local runs and tests.
type MemoryCustomerRepository struct {
	mu       sync.Mutex
	byUserID map[string]*entity.Customer
	byStripe map[string]string
	writes   int
	err      error
	now      func() time.Time
}

// NewMemoryCustomerRepository creates an empty in-memory store.
func NewMemoryCustomerRepository() *MemoryCustomerRepository {
	return &MemoryCustomerRepository{
		byUserID: make(map[string]*entity.Customer),
		byStripe: make(map[string]string),
		now:      time.Now,
	}
}

// WithError makes every subsequent call fail with err. Pass nil to recover.
func (m *MemoryCustomerRepository) WithError(err error) *MemoryCustomerRepository {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Count returns the number of stored customers.
func (m *MemoryCustomerRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byUserID)
}

// Writes returns the number of successful inserts and updates.
func (m *MemoryCustomerRepository) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MemoryCustomerRepository) FindByUserID(ctx context.Context, userID string) (*entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return cloneCustomer(m.byUserID[userID]), nil
}

func (m *MemoryCustomerRepository) FindByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	userID, ok := m.byStripe[stripeCustomerID]
	if !ok {
		return nil, nil
	}
	return cloneCustomer(m.byUserID[userID]), nil
}

func (m *MemoryCustomerRepository) Insert(ctx context.Context, userID string, membership entity.Membership) (*entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if _, exists := m.byUserID[userID]; exists {
		return nil, domainErrors.ErrCustomerConflict
	}
	if membership == "" {
		membership = entity.MembershipFree
	}

	now := m.now()
	customer := &entity.Customer{
		ID:         uuid.New(),
		UserID:     userID,
		Membership: membership,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.byUserID[userID] = customer
	m.writes++
	return cloneCustomer(customer), nil
}

func (m *MemoryCustomerRepository) UpdateByUserID(ctx context.Context, userID string, update entity.CustomerUpdate) (*entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.apply(m.byUserID[userID], update)
}

func (m *MemoryCustomerRepository) UpdateByStripeCustomerID(ctx context.Context, stripeCustomerID string, update entity.CustomerUpdate) (*entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	userID, ok := m.byStripe[stripeCustomerID]
	if !ok {
		return nil, nil
	}
	return m.apply(m.byUserID[userID], update)
}

// apply must be called with mu held.
func (m *MemoryCustomerRepository) apply(customer *entity.Customer, update entity.CustomerUpdate) (*entity.Customer, error) {
	if customer == nil {
		return nil, nil
	}
	if update.IsEmpty() {
		return cloneCustomer(customer), nil
	}

	if update.StripeCustomerID != nil {
		newID := *update.StripeCustomerID
		if owner, taken := m.byStripe[newID]; taken && owner != customer.UserID {
			return nil, domainErrors.ErrCustomerConflict
		}
		if customer.StripeCustomerID != nil {
			delete(m.byStripe, *customer.StripeCustomerID)
		}
		m.byStripe[newID] = customer.UserID
		customer.StripeCustomerID = stringPtr(newID)
	}
	if update.Membership != nil {
		customer.Membership = *update.Membership
	}
	if update.StripeSubscriptionID != nil {
		customer.StripeSubscriptionID = stringPtr(*update.StripeSubscriptionID)
	}
	customer.UpdatedAt = m.now()
	m.writes++
	return cloneCustomer(customer), nil
}

func cloneCustomer(c *entity.Customer) *entity.Customer {
	if c == nil {
		return nil
	}
	clone := *c
	if c.StripeCustomerID != nil {
		clone.StripeCustomerID = stringPtr(*c.StripeCustomerID)
	}
	if c.StripeSubscriptionID != nil {
		clone.StripeSubscriptionID = stringPtr(*c.StripeSubscriptionID)
	}
	return &clone
}

func stringPtr(s string) *string {
	return &s
}
