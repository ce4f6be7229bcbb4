package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the persisted customer row. user_id carries the uniqueness
// constraint that serializes concurrent provisioning.
type Customer struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               string    `gorm:"column:user_id;uniqueIndex:idx_customers_user_id;not null;size:255" json:"user_id"`
	Membership           string    `gorm:"column:membership;not null;size:16" json:"membership"`
	StripeCustomerID     *string   `gorm:"column:stripe_customer_id;uniqueIndex:idx_customers_stripe_customer_id;size:255" json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string   `gorm:"column:stripe_subscription_id;size:255" json:"stripe_subscription_id,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Customer) TableName() string {
	return "customers"
}
