package database

import (
	"github.com/wekeepgrowing/semo-customer/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := db.AutoMigrate(
		&model.Customer{},
		&model.WebhookEvent{},
	); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates indexes that GORM doesn't handle automatically
func createCustomIndexes(db *gorm.DB) error {
	return db.Exec(`CREATE INDEX IF NOT EXISTS idx_webhook_events_unprocessed ON webhook_events (created_at) WHERE status IN ('pending', 'failed')`).Error
}
