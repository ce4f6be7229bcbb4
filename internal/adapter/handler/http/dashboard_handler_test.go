package http

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wekeepgrowing/semo-customer/internal/domain/entity"
)

func TestDashboardHandler_GetDashboard(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(authedRequest(t, http.MethodGet, "/api/v1/dashboard", ada))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"name": "Ada Lovelace",
		"email": "ada@example.com",
		"avatar": "https://img.example.com/ada.png",
		"membership": "free"
	}`, rec.Body.String())
	assert.Equal(t, 1, env.customers.Count())

	// later renders reuse the row
	env.do(authedRequest(t, http.MethodGet, "/api/v1/dashboard", ada))
	assert.Equal(t, 1, env.customers.Count())
}

func TestDashboardHandler_FallsBackToFree(t *testing.T) {
	env := newTestEnv(t)
	env.customers.WithError(errors.New("connection refused"))

	rec := env.do(authedRequest(t, http.MethodGet, "/api/v1/dashboard", entity.Principal{UserID: "user_2", Username: "grace"}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "grace", body["name"])
	assert.Equal(t, "free", body["membership"])
}

func TestDashboardHandler_GetHeader(t *testing.T) {
	env := newTestEnv(t)

	anonymous := env.do(jsonRequest(http.MethodGet, "/api/v1/header", ""))
	require.Equal(t, http.StatusOK, anonymous.Code)
	assert.JSONEq(t, `{"membership":null}`, anonymous.Body.String())
	assert.Equal(t, 0, env.customers.Writes())

	pro := entity.MembershipPro
	_, err := env.customers.Insert(context.Background(), "user_1", entity.MembershipFree)
	require.NoError(t, err)
	_, err = env.customers.UpdateByUserID(context.Background(), "user_1", entity.CustomerUpdate{Membership: &pro})
	require.NoError(t, err)

	signedIn := env.do(authedRequest(t, http.MethodGet, "/api/v1/header", ada))
	assert.JSONEq(t, `{"membership":"pro"}`, signedIn.Body.String())

	env.customers.WithError(errors.New("down"))
	degraded := env.do(authedRequest(t, http.MethodGet, "/api/v1/header", ada))
	assert.JSONEq(t, `{"membership":"free"}`, degraded.Body.String())
}
