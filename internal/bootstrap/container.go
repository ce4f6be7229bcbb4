// Package bootstrap wires configuration into the service's dependencies.
package bootstrap

import (
	"github.com/wekeepgrowing/semo-customer/internal/config"
	"github.com/wekeepgrowing/semo-customer/internal/infrastructure/database"
	"github.com/wekeepgrowing/semo-customer/internal/infrastructure/messaging"
	"github.com/wekeepgrowing/semo-customer/internal/infrastructure/provider/stripe"
	"github.com/wekeepgrowing/semo-customer/internal/infrastructure/webhook"
	"github.com/wekeepgrowing/semo-customer/internal/usecase"
	"github.com/wekeepgrowing/semo-customer/pkg/logger"
	pkgmessaging "github.com/wekeepgrowing/semo-customer/pkg/messaging"
	"go.uber.org/zap"
)

// Container holds everything the entry points share
type Container struct {
	Repos        *database.Repositories
	Provisioning *usecase.ProvisioningService
	Customers    *usecase.CustomerService
	Verifier     *webhook.SvixVerifier

	logger  *zap.Logger
	closers []func() error
}

// NewLogger builds the service logger from the log section.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		FilePath:    cfg.Log.FilePath,
		Development: cfg.Service.Environment == "dev",
	})
}

// NewContainer opens the store and builds the use cases. Redis and Stripe are
// optional; when they are not configured, or Redis cannot be reached, the
// no-op publisher and the identity email resolver are used.
func NewContainer(cfg *config.Config, log *zap.Logger) (*Container, error) {
	repos, err := database.Open(&cfg.Database, log)
	if err != nil {
		return nil, err
	}

	c := &Container{Repos: repos, logger: log}
	c.closers = append(c.closers, func() error { return repos.Close(log) })

	var publisher usecase.EventPublisher = usecase.NoopEventPublisher{}
	if cfg.Redis.Enabled() {
		redisPublisher, err := pkgmessaging.NewRedisPublisher(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("Redis unavailable, customer events will not be published",
				zap.String("addr", cfg.Redis.Addr),
				zap.Error(err))
		} else {
			events := messaging.NewCustomerEventPublisher(redisPublisher)
			c.closers = append(c.closers, events.Close)
			publisher = events
		}
	}

	var billingEmails usecase.BillingEmailResolver = usecase.IdentityEmailResolver{}
	if cfg.Stripe.Enabled() {
		billingEmails = stripe.NewCustomerEmailResolver(cfg.Stripe.SecretKey, log)
	}

	c.Provisioning = usecase.NewProvisioningService(repos.Customer, publisher, log)
	c.Customers = usecase.NewCustomerService(repos.Customer, c.Provisioning, billingEmails, log)

	c.Verifier = webhook.NewSvixVerifier(cfg.Webhook.ClerkSecret)
	if err := c.Verifier.Err(); err != nil {
		log.Warn("Clerk webhooks will be rejected", zap.Error(err))
	}

	return c, nil
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.logger.Error("Failed to close resource", zap.Error(err))
		}
	}
}
