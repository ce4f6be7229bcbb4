package usecase

import (
	"context"

	"github.com/wekeepgrowing/semo-customer/internal/domain/entity"
)

// EventPublisher announces customer lifecycle events to other services.
type EventPublisher interface {
	PublishCustomerProvisioned(ctx context.Context, customer *entity.Customer) error
}

// BillingEmailResolver returns the email the billing provider holds for a customer.
type BillingEmailResolver interface {
	ResolveBillingEmail(ctx context.Context, stripeCustomerID string, principal entity.Principal) (string, error)
}

// NoopEventPublisher drops every event.
type NoopEventPublisher struct{}

func (NoopEventPublisher) PublishCustomerProvisioned(context.Context, *entity.Customer) error {
	return nil
}

// IdentityEmailResolver treats the identity-provider email as the billing email.
type IdentityEmailResolver struct{}

func (IdentityEmailResolver) ResolveBillingEmail(_ context.Context, _ string, principal entity.Principal) (string, error) {
	return principal.Email, nil
}
