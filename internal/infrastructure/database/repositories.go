package database

import (
	"github.com/wekeepgrowing/semo-customer/internal/adapter/repository"
	"github.com/wekeepgrowing/semo-customer/internal/config"
	domainRepo "github.com/wekeepgrowing/semo-customer/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Customer     domainRepo.CustomerRepository
	WebhookEvent domainRepo.WebhookEventRepository

	db *gorm.DB
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Customer:     repository.NewCustomerRepository(db, logger),
		WebhookEvent: repository.NewWebhookEventRepository(db, logger),
		db:           db,
	}
}

// NewMemoryRepositories creates process-local repositories. Nothing survives a restart.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Customer:     repository.NewMemoryCustomerRepository(),
		WebhookEvent: repository.NewMemoryWebhookEventRepository(),
	}
}

// Open builds the repositories for the configured driver, migrating the
// schema when auto_migrate is set.
func Open(cfg *config.DatabaseConfig, logger *zap.Logger) (*Repositories, error) {
	if cfg.Driver == config.DriverMemory {
		logger.Warn("Using in-memory customer store")
		return NewMemoryRepositories(), nil
	}

	db, err := NewConnection(cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := Migrate(db, logger); err != nil {
			_ = Close(db, logger)
			return nil, err
		}
	}

	return NewRepositories(db, logger), nil
}

// Close releases the database connection, if any.
func (r *Repositories) Close(logger *zap.Logger) error {
	if r.db == nil {
		return nil
	}
	return Close(r.db, logger)
}
