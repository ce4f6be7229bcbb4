package usecase

import (
	"context"
	"errors"

	"github.com/wekeepgrowing/semo-customer/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-customer/internal/domain/errors"
	domainRepo "github.com/wekeepgrowing/semo-customer/internal/domain/repository"
	"go.uber.org/zap"
)

// ProvisionResult is the outcome of a get-or-create call.
type ProvisionResult struct {
	Success  bool
	Customer *entity.Customer
	// Created is true only for the caller whose insert produced the row.
	Created bool
}

// ProvisioningService makes sure exactly one customer exists per user id.
// It holds no locks; the store's unique key on user_id decides every race.
type ProvisioningService struct {
	customers domainRepo.CustomerRepository
	publisher EventPublisher
	logger    *zap.Logger
}

// NewProvisioningService creates a provisioning service. A nil publisher disables events.
func NewProvisioningService(
	customers domainRepo.CustomerRepository,
	publisher EventPublisher,
	logger *zap.Logger,
) *ProvisioningService {
	if publisher == nil {
		publisher = NoopEventPublisher{}
	}
	return &ProvisioningService{
		customers: customers,
		publisher: publisher,
		logger:    logger,
	}
}

// Provision returns the customer for userID, creating a free one if needed.
// It never returns an error or panics; failures are logged and reported as
// Success=false. Store calls are detached from ctx cancellation so an
// abandoned request does not cut a write short.
func (s *ProvisioningService) Provision(ctx context.Context, userID string) (result ProvisionResult) {
	log := s.logger.With(zap.String("user_id", userID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("Customer provisioning panicked", zap.Any("panic", r), zap.Stack("stack"))
			result = ProvisionResult{}
		}
	}()

	if userID == "" {
		log.Warn("Customer provisioning skipped", zap.Error(domainErrors.ErrEmptyUserID))
		return ProvisionResult{}
	}

	ctx = context.WithoutCancel(ctx)

	existing, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		// the insert and re-read below decide the outcome
		log.Warn("Customer lookup failed, attempting insert", zap.Error(err))
	} else if existing != nil {
		log.Debug("Customer already exists", zap.String("membership", string(existing.Membership)))
		return ProvisionResult{Success: true, Customer: existing}
	}

	inserted, err := s.customers.Insert(ctx, userID, entity.MembershipFree)
	switch {
	case err == nil && inserted != nil:
		log.Info("Customer created", zap.String("customer_id", inserted.ID.String()))
		s.publish(ctx, inserted, log)
		return ProvisionResult{Success: true, Customer: inserted, Created: true}
	case err == nil, errors.Is(err, domainErrors.ErrCustomerConflict):
		log.Info("Customer insert lost the race, re-reading")
	default:
		log.Error("Customer insert failed", zap.Error(err))
		return ProvisionResult{}
	}

	reread, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		log.Error("Customer re-read after conflict failed", zap.Error(err))
		return ProvisionResult{}
	}
	if reread == nil {
		log.Error("Customer missing after insert conflict")
		return ProvisionResult{}
	}

	return ProvisionResult{Success: true, Customer: reread}
}

func (s *ProvisioningService) publish(ctx context.Context, customer *entity.Customer, log *zap.Logger) {
	if err := s.publisher.PublishCustomerProvisioned(ctx, customer); err != nil {
		log.Warn("Failed to publish customer provisioned event", zap.Error(err))
	}
}
