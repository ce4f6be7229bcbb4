package http

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	handlers "github.com/wekeepgrowing/semo-customer/internal/adapter/handler/http"
	"github.com/wekeepgrowing/semo-customer/internal/config"
	"github.com/wekeepgrowing/semo-customer/internal/infrastructure/database"
	"github.com/wekeepgrowing/semo-customer/internal/infrastructure/webhook"
	"github.com/wekeepgrowing/semo-customer/internal/middleware/auth"
	"github.com/wekeepgrowing/semo-customer/internal/usecase"
	"github.com/wekeepgrowing/semo-customer/pkg/logger"
	"go.uber.org/zap"
)

const InternalKeyHeader = "X-Internal-Key"

type Server struct {
	config    *config.Config
	logger    *zap.Logger
	echo      *echo.Echo
	repos     *database.Repositories
	customers *usecase.CustomerService
	verifier  webhook.Verifier
}

func NewServer(
	cfg *config.Config,
	log *zap.Logger,
	repos *database.Repositories,
	customers *usecase.CustomerService,
	verifier webhook.Verifier,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewRequestValidator()
	logger.WithEchoLogger(e, log)

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.HTTP.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))

	s := &Server{
		config:    cfg,
		logger:    log,
		echo:      e,
		repos:     repos,
		customers: customers,
		verifier:  verifier,
	}
	s.setupRoutes()
	return s
}

func (s *Server) Start() error {
	addr := s.config.Server.HTTP.Address()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	webhookHandler := handlers.NewWebhookHandler(s.logger, s.verifier, s.customers, s.repos.WebhookEvent)
	customerHandler := handlers.NewCustomerHandler(s.logger, s.customers)
	dashboardHandler := handlers.NewDashboardHandler(s.logger, s.customers)

	requireAuth := auth.JWTMiddleware(auth.JWTConfig{
		Secret: s.config.Auth.JWTSecret,
		Logger: s.logger,
	})
	optionalAuth := auth.JWTMiddleware(auth.JWTConfig{
		Secret:   s.config.Auth.JWTSecret,
		Logger:   s.logger,
		Optional: true,
	})

	// Webhook route (outside API versioning)
	s.echo.POST("/api/webhooks/clerk", webhookHandler.HandleClerkWebhook)

	v1 := s.echo.Group("/api/v1")

	// Page-load triggers
	v1.GET("/dashboard", dashboardHandler.GetDashboard, requireAuth)
	v1.GET("/header", dashboardHandler.GetHeader, optionalAuth)

	// Customers (require JWT authentication)
	customers := v1.Group("/customers", requireAuth)
	customers.POST("", customerHandler.CreateCustomer)
	customers.GET("/me", customerHandler.GetCurrentCustomer)
	customers.GET("/me/billing", customerHandler.GetBillingData)

	// Billing collaborator routes
	internal := v1.Group("/internal", s.internalKeyAuth())
	internal.PATCH("/customers/:userId", customerHandler.UpdateByUserID)
	internal.PATCH("/customers/by-stripe/:stripeCustomerId", customerHandler.UpdateByStripeCustomerID)
}

// internalKeyAuth rejects every request when no internal key is configured.
func (s *Server) internalKeyAuth() echo.MiddlewareFunc {
	expected := []byte(s.config.Internal.APIKey)
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup: "header:" + InternalKeyHeader,
		Validator: func(key string, c echo.Context) (bool, error) {
			if len(expected) == 0 {
				return false, nil
			}
			return subtle.ConstantTimeCompare([]byte(key), expected) == 1, nil
		},
	})
}
