package entity

import (
	"time"

	"github.com/google/uuid"
)

// Membership is the billing tier of a customer.
type Membership string

const (
	MembershipFree Membership = "free"
	MembershipPro  Membership = "pro"
)

// Valid reports whether m is a known membership.
func (m Membership) Valid() bool {
	return m == MembershipFree || m == MembershipPro
}

// Customer is the local billing record of one identity-provider user.
type Customer struct {
	ID                   uuid.UUID  `json:"id"`
	UserID               string     `json:"userId"`
	Membership           Membership `json:"membership"`
	StripeCustomerID     *string    `json:"stripeCustomerId"`
	StripeSubscriptionID *string    `json:"stripeSubscriptionId"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// CustomerUpdate is a partial update; nil fields are left unchanged.
type CustomerUpdate struct {
	Membership           *Membership
	StripeCustomerID     *string
	StripeSubscriptionID *string
}

// IsEmpty reports whether the update changes nothing.
func (u CustomerUpdate) IsEmpty() bool {
	return u.Membership == nil && u.StripeCustomerID == nil && u.StripeSubscriptionID == nil
}
