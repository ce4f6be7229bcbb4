package stripe

import (
	"context"
	"fmt"

	stripego "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/wekeepgrowing/semo-customer/internal/domain/entity"
	"go.uber.org/zap"
)

// CustomerEmailResolver reads the billing email from the Stripe customer object.
type CustomerEmailResolver struct {
	api    *client.API
	logger *zap.Logger
}

// NewCustomerEmailResolver creates a resolver using the default Stripe backends.
func NewCustomerEmailResolver(secretKey string, logger *zap.Logger) *CustomerEmailResolver {
	return NewCustomerEmailResolverWithBackends(secretKey, nil, logger)
}

// NewCustomerEmailResolverWithBackends allows pointing the client at another API host.
func NewCustomerEmailResolverWithBackends(secretKey string, backends *stripego.Backends, logger *zap.Logger) *CustomerEmailResolver {
	api := &client.API{}
	api.Init(secretKey, backends)
	return &CustomerEmailResolver{api: api, logger: logger}
}

// ResolveBillingEmail returns the email on the Stripe customer. Deleted
// customers resolve to an empty email.
func (r *CustomerEmailResolver) ResolveBillingEmail(ctx context.Context, stripeCustomerID string, _ entity.Principal) (string, error) {
	params := &stripego.CustomerParams{}
	params.Context = ctx

	customer, err := r.api.Customers.Get(stripeCustomerID, params)
	if err != nil {
		return "", fmt.Errorf("failed to get stripe customer %s: %w", stripeCustomerID, err)
	}

	if customer.Deleted {
		r.logger.Info("Stripe customer is deleted",
			zap.String("stripe_customer_id", stripeCustomerID))
		return "", nil
	}

	return customer.Email, nil
}
