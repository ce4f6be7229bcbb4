package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wekeepgrowing/semo-customer/internal/config"
	"github.com/wekeepgrowing/semo-customer/internal/domain/entity"
	"github.com/wekeepgrowing/semo-customer/internal/infrastructure/database"
	"github.com/wekeepgrowing/semo-customer/internal/infrastructure/webhook"
	"github.com/wekeepgrowing/semo-customer/internal/middleware/auth"
	"github.com/wekeepgrowing/semo-customer/internal/usecase"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, internalKey string) (*Server, *database.Repositories, string) {
	t.Helper()
	log := zap.NewNop()

	cfg := &config.Config{
		Service: config.ServiceConfig{Name: "customer"},
		Server: config.ServerConfig{HTTP: config.HTTPConfig{
			Host:         "127.0.0.1",
			Port:         8080,
			AllowOrigins: []string{"*"},
		}},
		Auth:     config.AuthConfig{JWTSecret: "jwt-secret"},
		Internal: config.InternalConfig{APIKey: internalKey},
	}
	secret := webhook.NewTestSecret("signing-key")

	repos := database.NewMemoryRepositories()
	service := usecase.NewCustomerService(repos.Customer, usecase.NewProvisioningService(repos.Customer, nil, log), nil, log)
	return NewServer(cfg, log, repos, service, webhook.NewSvixVerifier(secret)), repos, secret
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	s, _, _ := newTestServer(t, "key")

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"customer"}`, rec.Body.String())
}

func TestServer_InternalKeyAuth(t *testing.T) {
	patch := func(key string) *http.Request {
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/internal/customers/user_1", bytes.NewBufferString(`{"membership":"pro"}`))
		req.Header.Set("Content-Type", "application/json")
		if key != "" {
			req.Header.Set(InternalKeyHeader, key)
		}
		return req
	}

	s, _, _ := newTestServer(t, "internal-key")

	assert.Equal(t, http.StatusBadRequest, serve(s, patch("")).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(s, patch("wrong")).Code)
	assert.Equal(t, http.StatusNotFound, serve(s, patch("internal-key")).Code)

	unset, _, _ := newTestServer(t, "")
	assert.Equal(t, http.StatusUnauthorized, serve(unset, patch("anything")).Code)
}

func TestServer_ProvisioningTriggersShareOneRow(t *testing.T) {
	s, repos, secret := newTestServer(t, "key")
	principal := entity.Principal{UserID: "user_1", FirstName: "Ada"}

	payload := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)
	headers, err := webhook.SignedHeaders(secret, "msg_1", time.Now(), payload)
	require.NoError(t, err)
	hook := httptest.NewRequest(http.MethodPost, "/api/webhooks/clerk", bytes.NewReader(payload))
	hook.Header = headers
	require.Equal(t, http.StatusOK, serve(s, hook).Code)

	token, err := auth.SignToken(principal, "jwt-secret", time.Hour)
	require.NoError(t, err)
	for _, target := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/dashboard"},
		{http.MethodGet, "/api/v1/header"},
		{http.MethodPost, "/api/v1/customers"},
	} {
		req := httptest.NewRequest(target.method, target.path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		assert.Equal(t, http.StatusOK, serve(s, req).Code, target.path)
	}

	rec := serve(s, func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return req
	}())
	require.Equal(t, http.StatusOK, rec.Code)

	customer, err := repos.Customer.FindByUserID(context.Background(), "user_1")
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, entity.MembershipFree, customer.Membership)
}
