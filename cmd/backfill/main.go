// Command backfill provisions customers for users that signed up while the
// webhook was failing.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/wekeepgrowing/semo-customer/internal/bootstrap"
	"github.com/wekeepgrowing/semo-customer/internal/config"
	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "users.yaml", "YAML manifest with the user ids to provision")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	userIDs, err := loadUserIDsFromYAML(*file)
	if err != nil {
		logger.Fatal("Failed to load user manifest", zap.String("path", *file), zap.Error(err))
	}

	container, err := bootstrap.NewContainer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize dependencies", zap.Error(err))
	}
	defer container.Close()

	report := backfill(context.Background(), container.Provisioning, userIDs, logger)

	logger.Info("Backfill completed",
		zap.Int("users", len(userIDs)),
		zap.Int("created", report.Created),
		zap.Int("existing", report.Existing),
		zap.Int("failed", len(report.Failed)))

	if len(report.Failed) > 0 {
		logger.Warn("Some customers could not be provisioned", zap.Strings("user_ids", report.Failed))
	}
}
