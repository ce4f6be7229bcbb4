package usecase

import (
	"context"
	"fmt"

	"github.com/wekeepgrowing/semo-customer/internal/domain/entity"
	domainRepo "github.com/wekeepgrowing/semo-customer/internal/domain/repository"
	"go.uber.org/zap"
)

// ActionResult is the success envelope returned to the web application.
type ActionResult struct {
	IsSuccess bool             `json:"isSuccess"`
	Data      *entity.Customer `json:"data,omitempty"`
}

// BillingData combines the stored customer with the emails known for it.
type BillingData struct {
	Customer      *entity.Customer `json:"customer"`
	IdentityEmail *string          `json:"clerkEmail"`
	BillingEmail  *string          `json:"stripeEmail"`
}

// DashboardUserData is what the dashboard layout needs to render.
type DashboardUserData struct {
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Avatar     string            `json:"avatar"`
	Membership entity.Membership `json:"membership"`
}

// CustomerService implements the customer actions used by the web application.
type CustomerService struct {
	customers     domainRepo.CustomerRepository
	provisioning  *ProvisioningService
	billingEmails BillingEmailResolver
	logger        *zap.Logger
}

// NewCustomerService creates a customer service. A nil resolver falls back to the identity email.
func NewCustomerService(
	customers domainRepo.CustomerRepository,
	provisioning *ProvisioningService,
	billingEmails BillingEmailResolver,
	logger *zap.Logger,
) *CustomerService {
	if billingEmails == nil {
		billingEmails = IdentityEmailResolver{}
	}
	return &CustomerService{
		customers:     customers,
		provisioning:  provisioning,
		billingEmails: billingEmails,
		logger:        logger,
	}
}

// Provision is the shared get-or-create entry point for every trigger.
func (s *CustomerService) Provision(ctx context.Context, userID string) ProvisionResult {
	return s.provisioning.Provision(ctx, userID)
}

// GetCustomerByUserID returns the stored customer or nil.
func (s *CustomerService) GetCustomerByUserID(ctx context.Context, userID string) (*entity.Customer, error) {
	customer, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get customer for %s: %w", userID, err)
	}
	return customer, nil
}

// GetBillingData returns the customer with its identity and billing emails.
// The billing email is only present once a stripe customer is linked.
func (s *CustomerService) GetBillingData(ctx context.Context, principal entity.Principal) (*BillingData, error) {
	customer, err := s.GetCustomerByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	data := &BillingData{Customer: customer}
	if principal.Email != "" {
		data.IdentityEmail = &principal.Email
	}

	if customer != nil && customer.StripeCustomerID != nil {
		email, err := s.billingEmails.ResolveBillingEmail(ctx, *customer.StripeCustomerID, principal)
		if err != nil {
			s.logger.Warn("Failed to resolve billing email",
				zap.String("user_id", principal.UserID),
				zap.String("stripe_customer_id", *customer.StripeCustomerID),
				zap.Error(err))
		} else if email != "" {
			data.BillingEmail = &email
		}
	}

	return data, nil
}

// UpdateByUserID applies a partial update keyed by user id. An absent row is
// an unsuccessful result with a nil error; store failures are returned.
func (s *CustomerService) UpdateByUserID(ctx context.Context, userID string, update entity.CustomerUpdate) (ActionResult, error) {
	customer, err := s.customers.UpdateByUserID(ctx, userID, update)
	if err != nil {
		s.logger.Error("Failed to update customer by user id",
			zap.String("user_id", userID),
			zap.Error(err))
		return ActionResult{}, fmt.Errorf("update customer %s: %w", userID, err)
	}
	if customer == nil {
		s.logger.Info("No customer to update", zap.String("user_id", userID))
		return ActionResult{}, nil
	}
	return ActionResult{IsSuccess: true, Data: customer}, nil
}

// UpdateByStripeCustomerID applies a partial update keyed by stripe customer id.
func (s *CustomerService) UpdateByStripeCustomerID(ctx context.Context, stripeCustomerID string, update entity.CustomerUpdate) (ActionResult, error) {
	customer, err := s.customers.UpdateByStripeCustomerID(ctx, stripeCustomerID, update)
	if err != nil {
		s.logger.Error("Failed to update customer by stripe customer id",
			zap.String("stripe_customer_id", stripeCustomerID),
			zap.Error(err))
		return ActionResult{}, fmt.Errorf("update customer by stripe id %s: %w", stripeCustomerID, err)
	}
	if customer == nil {
		s.logger.Info("No customer to update", zap.String("stripe_customer_id", stripeCustomerID))
		return ActionResult{}, nil
	}
	return ActionResult{IsSuccess: true, Data: customer}, nil
}

// ResolveMembership provisions the customer and reports its membership,
// degrading to free when provisioning fails.
func (s *CustomerService) ResolveMembership(ctx context.Context, userID string) entity.Membership {
	result := s.provisioning.Provision(ctx, userID)
	if !result.Success || result.Customer == nil {
		s.logger.Warn("Falling back to free membership", zap.String("user_id", userID))
		return entity.MembershipFree
	}
	return result.Customer.Membership
}

// DashboardData builds the dashboard view for an authenticated user. Every
// authenticated user is admitted; the membership is only displayed.
func (s *CustomerService) DashboardData(ctx context.Context, principal entity.Principal) DashboardUserData {
	return DashboardUserData{
		Name:       principal.DisplayName(),
		Email:      principal.Email,
		Avatar:     principal.ImageURL,
		Membership: s.ResolveMembership(ctx, principal.UserID),
	}
}
