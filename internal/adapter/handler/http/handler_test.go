package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/wekeepgrowing/semo-customer/internal/adapter/repository"
	"github.com/wekeepgrowing/semo-customer/internal/domain/entity"
	"github.com/wekeepgrowing/semo-customer/internal/infrastructure/webhook"
	"github.com/wekeepgrowing/semo-customer/internal/middleware/auth"
	"github.com/wekeepgrowing/semo-customer/internal/usecase"
	"github.com/wekeepgrowing/semo-customer/pkg/logger"
	"go.uber.org/zap"
)

const (
	testJWTSecret  = "test-jwt-secret"
	testSigningKey = "clerk-signing-key"
)

type testEnv struct {
	echo      *echo.Echo
	customers *repository.MemoryCustomerRepository
	events    *repository.MemoryWebhookEventRepository
	secret    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithSecret(t, webhook.NewTestSecret(testSigningKey))
}

func newTestEnvWithSecret(t *testing.T, secret string) *testEnv {
	t.Helper()
	log := zap.NewNop()

	customers := repository.NewMemoryCustomerRepository()
	events := repository.NewMemoryWebhookEventRepository()
	service := usecase.NewCustomerService(customers, usecase.NewProvisioningService(customers, nil, log), nil, log)

	e := echo.New()
	e.Validator = NewRequestValidator()
	logger.WithEchoLogger(e, log)

	webhookHandler := NewWebhookHandler(log, webhook.NewSvixVerifier(secret), service, events)
	customerHandler := NewCustomerHandler(log, service)
	dashboardHandler := NewDashboardHandler(log, service)

	required := auth.JWTMiddleware(auth.JWTConfig{Secret: testJWTSecret, Logger: log})
	optional := auth.JWTMiddleware(auth.JWTConfig{Secret: testJWTSecret, Logger: log, Optional: true})

	e.POST("/api/webhooks/clerk", webhookHandler.HandleClerkWebhook)
	e.GET("/api/v1/dashboard", dashboardHandler.GetDashboard, required)
	e.GET("/api/v1/header", dashboardHandler.GetHeader, optional)
	e.POST("/api/v1/customers", customerHandler.CreateCustomer, required)
	e.GET("/api/v1/customers/me", customerHandler.GetCurrentCustomer, required)
	e.GET("/api/v1/customers/me/billing", customerHandler.GetBillingData, required)
	e.PATCH("/api/v1/internal/customers/:userId", customerHandler.UpdateByUserID)
	e.PATCH("/api/v1/internal/customers/by-stripe/:stripeCustomerId", customerHandler.UpdateByStripeCustomerID)

	return &testEnv{echo: e, customers: customers, events: events, secret: secret}
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) signedWebhook(t *testing.T, msgID string, payload []byte) *http.Request {
	t.Helper()
	headers, err := webhook.SignedHeaders(env.secret, msgID, time.Now(), payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/clerk", bytes.NewReader(payload))
	for key := range headers {
		req.Header.Set(key, headers.Get(key))
	}
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func authedRequest(t *testing.T, method, path string, principal entity.Principal) *http.Request {
	t.Helper()
	token, err := auth.SignToken(principal, testJWTSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	return req
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
