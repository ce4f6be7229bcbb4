package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/wekeepgrowing/semo-customer/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-customer/internal/domain/errors"
	"github.com/wekeepgrowing/semo-customer/internal/domain/model"
	"github.com/wekeepgrowing/semo-customer/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pgUniqueViolation = "23505"

type customerRepository struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewCustomerRepository creates a gorm backed customer repository
func NewCustomerRepository(db *gorm.DB, logger *zap.Logger) repository.CustomerRepository {
	return &customerRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (r *customerRepository) modelToEntity(m *model.Customer) *entity.Customer {
	if m == nil {
		return nil
	}
	return &entity.Customer{
		ID:                   m.ID,
		UserID:               m.UserID,
		Membership:           entity.Membership(m.Membership),
		StripeCustomerID:     m.StripeCustomerID,
		StripeSubscriptionID: m.StripeSubscriptionID,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func (r *customerRepository) FindByUserID(ctx context.Context, userID string) (*entity.Customer, error) {
	return r.findBy(ctx, "user_id", userID)
}

func (r *customerRepository) FindByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*entity.Customer, error) {
	return r.findBy(ctx, "stripe_customer_id", stripeCustomerID)
}

func (r *customerRepository) findBy(ctx context.Context, column, value string) (*entity.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).Where(column+" = ?", value).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get customer by %s: %w", column, err)
	}
	return r.modelToEntity(&customer), nil
}

// Insert relies on ON CONFLICT DO NOTHING so a losing concurrent insert affects
// zero rows instead of failing.
func (r *customerRepository) Insert(ctx context.Context, userID string, membership entity.Membership) (*entity.Customer, error) {
	if membership == "" {
		membership = entity.MembershipFree
	}

	now := r.now()
	customer := &model.Customer{
		ID:         uuid.New(),
		UserID:     userID,
		Membership: string(membership),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(customer)

	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return nil, domainErrors.ErrCustomerConflict
		}
		r.logger.Error("Failed to insert customer",
			zap.String("user_id", userID),
			zap.Error(result.Error))
		return nil, fmt.Errorf("failed to insert customer: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return nil, domainErrors.ErrCustomerConflict
	}

	return r.modelToEntity(customer), nil
}

func (r *customerRepository) UpdateByUserID(ctx context.Context, userID string, update entity.CustomerUpdate) (*entity.Customer, error) {
	return r.updateBy(ctx, "user_id", userID, update)
}

func (r *customerRepository) UpdateByStripeCustomerID(ctx context.Context, stripeCustomerID string, update entity.CustomerUpdate) (*entity.Customer, error) {
	return r.updateBy(ctx, "stripe_customer_id", stripeCustomerID, update)
}

// updateBy resolves the row id first so an update that rewrites the lookup key
// can still return the row.
func (r *customerRepository) updateBy(ctx context.Context, column, value string, update entity.CustomerUpdate) (*entity.Customer, error) {
	var updated *model.Customer

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Customer
		if err := tx.Where(column+" = ?", value).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if update.IsEmpty() {
			updated = &current
			return nil
		}

		values := map[string]interface{}{"updated_at": r.now()}
		if update.Membership != nil {
			values["membership"] = string(*update.Membership)
		}
		if update.StripeCustomerID != nil {
			values["stripe_customer_id"] = *update.StripeCustomerID
		}
		if update.StripeSubscriptionID != nil {
			values["stripe_subscription_id"] = *update.StripeSubscriptionID
		}

		if err := tx.Model(&model.Customer{}).Where("id = ?", current.ID).Updates(values).Error; err != nil {
			return err
		}

		var row model.Customer
		if err := tx.Where("id = ?", current.ID).First(&row).Error; err != nil {
			return err
		}
		updated = &row
		return nil
	})

	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("failed to update customer by %s: %w", column, domainErrors.ErrCustomerConflict)
		}
		r.logger.Error("Failed to update customer",
			zap.String("key", column),
			zap.String("value", value),
			zap.Error(err))
		return nil, fmt.Errorf("failed to update customer by %s: %w", column, err)
	}

	return r.modelToEntity(updated), nil
}

// isUniqueViolation recognises duplicate-key failures from every supported driver.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}
