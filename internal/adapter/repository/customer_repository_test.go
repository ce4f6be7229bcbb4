package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wekeepgrowing/semo-customer/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-customer/internal/domain/errors"
	"github.com/wekeepgrowing/semo-customer/internal/domain/model"
	domainRepo "github.com/wekeepgrowing/semo-customer/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.Customer{}, &model.WebhookEvent{}))
	return db
}

func customerRepositories(t *testing.T) map[string]func() domainRepo.CustomerRepository {
	return map[string]func() domainRepo.CustomerRepository{
		"gorm": func() domainRepo.CustomerRepository {
			return NewCustomerRepository(newTestDB(t), zap.NewNop())
		},
		"memory": func() domainRepo.CustomerRepository {
			return NewMemoryCustomerRepository()
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestCustomerRepository_Contract(t *testing.T) {
	ctx := context.Background()

	for name, newRepo := range customerRepositories(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("find on empty store is absent", func(t *testing.T) {
				repo := newRepo()

				customer, err := repo.FindByUserID(ctx, "user_missing")
				assert.NoError(t, err)
				assert.Nil(t, customer)

				customer, err = repo.FindByStripeCustomerID(ctx, "cus_missing")
				assert.NoError(t, err)
				assert.Nil(t, customer)
			})

			t.Run("insert defaults to free", func(t *testing.T) {
				repo := newRepo()

				customer, err := repo.Insert(ctx, "user_1", "")
				require.NoError(t, err)
				require.NotNil(t, customer)
				assert.Equal(t, "user_1", customer.UserID)
				assert.Equal(t, entity.MembershipFree, customer.Membership)
				assert.Nil(t, customer.StripeCustomerID)
				assert.False(t, customer.CreatedAt.IsZero())

				found, err := repo.FindByUserID(ctx, "user_1")
				require.NoError(t, err)
				require.NotNil(t, found)
				assert.Equal(t, customer.ID, found.ID)
			})

			t.Run("second insert conflicts without a row", func(t *testing.T) {
				repo := newRepo()

				first, err := repo.Insert(ctx, "user_1", entity.MembershipFree)
				require.NoError(t, err)

				second, err := repo.Insert(ctx, "user_1", entity.MembershipPro)
				assert.ErrorIs(t, err, domainErrors.ErrCustomerConflict)
				assert.Nil(t, second)

				found, err := repo.FindByUserID(ctx, "user_1")
				require.NoError(t, err)
				assert.Equal(t, first.ID, found.ID)
				assert.Equal(t, entity.MembershipFree, found.Membership)
			})

			t.Run("concurrent inserts produce one winner", func(t *testing.T) {
				repo := newRepo()
				const callers = 8

				var wg sync.WaitGroup
				results := make(chan error, callers)
				for i := 0; i < callers; i++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						_, err := repo.Insert(ctx, "user_race", entity.MembershipFree)
						results <- err
					}()
				}
				wg.Wait()
				close(results)

				wins, conflicts := 0, 0
				for err := range results {
					switch {
					case err == nil:
						wins++
					case errors.Is(err, domainErrors.ErrCustomerConflict):
						conflicts++
					default:
						t.Fatalf("unexpected insert error: %v", err)
					}
				}
				assert.Equal(t, 1, wins)
				assert.Equal(t, callers-1, conflicts)
			})

			t.Run("partial update changes only membership", func(t *testing.T) {
				repo := newRepo()

				_, err := repo.Insert(ctx, "user_1", entity.MembershipFree)
				require.NoError(t, err)
				linked, err := repo.UpdateByUserID(ctx, "user_1", entity.CustomerUpdate{
					StripeCustomerID: ptr("cus_123"),
				})
				require.NoError(t, err)
				require.NotNil(t, linked)

				updated, err := repo.UpdateByUserID(ctx, "user_1", entity.CustomerUpdate{
					Membership: ptr(entity.MembershipPro),
				})
				require.NoError(t, err)
				require.NotNil(t, updated)
				assert.Equal(t, entity.MembershipPro, updated.Membership)
				require.NotNil(t, updated.StripeCustomerID)
				assert.Equal(t, "cus_123", *updated.StripeCustomerID)
				assert.Equal(t, linked.ID, updated.ID)
				assert.Equal(t, "user_1", updated.UserID)
				assert.False(t, updated.UpdatedAt.Before(linked.UpdatedAt))
			})

			t.Run("update of missing user is absent without side effects", func(t *testing.T) {
				repo := newRepo()

				updated, err := repo.UpdateByUserID(ctx, "user_missing", entity.CustomerUpdate{
					Membership: ptr(entity.MembershipPro),
				})
				assert.NoError(t, err)
				assert.Nil(t, updated)

				found, err := repo.FindByUserID(ctx, "user_missing")
				assert.NoError(t, err)
				assert.Nil(t, found)
			})

			t.Run("update by stripe customer id", func(t *testing.T) {
				repo := newRepo()

				_, err := repo.Insert(ctx, "user_1", entity.MembershipFree)
				require.NoError(t, err)
				_, err = repo.UpdateByUserID(ctx, "user_1", entity.CustomerUpdate{StripeCustomerID: ptr("cus_123")})
				require.NoError(t, err)

				updated, err := repo.UpdateByStripeCustomerID(ctx, "cus_123", entity.CustomerUpdate{
					Membership:           ptr(entity.MembershipPro),
					StripeSubscriptionID: ptr("sub_456"),
				})
				require.NoError(t, err)
				require.NotNil(t, updated)
				assert.Equal(t, "user_1", updated.UserID)
				assert.Equal(t, entity.MembershipPro, updated.Membership)
				require.NotNil(t, updated.StripeSubscriptionID)
				assert.Equal(t, "sub_456", *updated.StripeSubscriptionID)

				found, err := repo.FindByStripeCustomerID(ctx, "cus_123")
				require.NoError(t, err)
				require.NotNil(t, found)
				assert.Equal(t, "user_1", found.UserID)

				missing, err := repo.UpdateByStripeCustomerID(ctx, "cus_missing", entity.CustomerUpdate{Membership: ptr(entity.MembershipFree)})
				assert.NoError(t, err)
				assert.Nil(t, missing)
			})

			t.Run("relinking the stripe key returns the row", func(t *testing.T) {
				repo := newRepo()

				_, err := repo.Insert(ctx, "user_1", entity.MembershipFree)
				require.NoError(t, err)
				_, err = repo.UpdateByUserID(ctx, "user_1", entity.CustomerUpdate{StripeCustomerID: ptr("cus_old")})
				require.NoError(t, err)

				updated, err := repo.UpdateByStripeCustomerID(ctx, "cus_old", entity.CustomerUpdate{StripeCustomerID: ptr("cus_new")})
				require.NoError(t, err)
				require.NotNil(t, updated)
				assert.Equal(t, "cus_new", *updated.StripeCustomerID)

				old, err := repo.FindByStripeCustomerID(ctx, "cus_old")
				assert.NoError(t, err)
				assert.Nil(t, old)
			})

			t.Run("stripe customer id is unique", func(t *testing.T) {
				repo := newRepo()

				for _, userID := range []string{"user_1", "user_2"} {
					_, err := repo.Insert(ctx, userID, entity.MembershipFree)
					require.NoError(t, err)
				}
				_, err := repo.UpdateByUserID(ctx, "user_1", entity.CustomerUpdate{StripeCustomerID: ptr("cus_123")})
				require.NoError(t, err)

				_, err = repo.UpdateByUserID(ctx, "user_2", entity.CustomerUpdate{StripeCustomerID: ptr("cus_123")})
				assert.ErrorIs(t, err, domainErrors.ErrCustomerConflict)
			})

			t.Run("empty update returns current row", func(t *testing.T) {
				repo := newRepo()

				inserted, err := repo.Insert(ctx, "user_1", entity.MembershipFree)
				require.NoError(t, err)

				same, err := repo.UpdateByUserID(ctx, "user_1", entity.CustomerUpdate{})
				require.NoError(t, err)
				require.NotNil(t, same)
				assert.Equal(t, inserted.ID, same.ID)
			})
		})
	}
}

func TestMemoryCustomerRepository_WithError(t *testing.T) {
	ctx := context.Background()
	storeDown := errors.New("store unavailable")
	repo := NewMemoryCustomerRepository().WithError(storeDown)

	_, err := repo.FindByUserID(ctx, "user_1")
	assert.ErrorIs(t, err, storeDown)
	_, err = repo.Insert(ctx, "user_1", entity.MembershipFree)
	assert.ErrorIs(t, err, storeDown)
	assert.Equal(t, 0, repo.Count())
	assert.Equal(t, 0, repo.Writes())

	repo.WithError(nil)
	_, err = repo.Insert(ctx, "user_1", entity.MembershipFree)
	assert.NoError(t, err)
	assert.Equal(t, 1, repo.Writes())
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"postgres unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"postgres other error", &pgconn.PgError{Code: "08006"}, false},
		{"plain error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isUniqueViolation(tt.err))
		})
	}
}
