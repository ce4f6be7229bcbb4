package repository

import (
	"context"

	"github.com/wekeepgrowing/semo-customer/internal/domain/entity"
)

// CustomerRepository is the keyed customer store. Lookups and updates return
// (nil, nil) when no row matches. Insert returns errors.ErrCustomerConflict
// when the user id is already taken, whether it lost a race or not.
type CustomerRepository interface {
	FindByUserID(ctx context.Context, userID string) (*entity.Customer, error)
	FindByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*entity.Customer, error)
	Insert(ctx context.Context, userID string, membership entity.Membership) (*entity.Customer, error)
	UpdateByUserID(ctx context.Context, userID string, update entity.CustomerUpdate) (*entity.Customer, error)
	UpdateByStripeCustomerID(ctx context.Context, stripeCustomerID string, update entity.CustomerUpdate) (*entity.Customer, error)
}
