package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWrap_KeepsInnerCode(t *testing.T) {
	inner := NewAppError(ErrNotFound, "customer not found", nil)
	wrapped := Wrap(fmt.Errorf("lookup: %w", inner), "get customer")

	assert.Equal(t, ErrNotFound, CodeOf(wrapped))
	assert.Nil(t, Wrap(nil, "noop"))
	assert.Equal(t, ErrInternal, CodeOf(Wrap(New("boom"), "plain")))
}

func TestToHTTPError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "invalid argument keeps message",
			err:            NewAppError(ErrInvalidArgument, "membership must be free or pro", nil),
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "membership must be free or pro",
		},
		{
			name:           "unavailable hides cause",
			err:            NewAppError(ErrUnavailable, "store down", New("dial tcp: refused")),
			expectedStatus: http.StatusServiceUnavailable,
			expectedMsg:    http.StatusText(http.StatusServiceUnavailable),
		},
		{
			name:           "plain error is internal",
			err:            New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    http.StatusText(http.StatusInternalServerError),
		},
		{
			name:           "echo error passes through",
			err:            echo.NewHTTPError(http.StatusTeapot, "teapot"),
			expectedStatus: http.StatusTeapot,
			expectedMsg:    "teapot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := ToHTTPError(tt.err)
			require.NotNil(t, httpErr)
			assert.Equal(t, tt.expectedStatus, httpErr.Code)
			assert.Equal(t, tt.expectedMsg, httpErr.Message)
		})
	}

	assert.Nil(t, ToHTTPError(nil))
}

func TestLogError_AddsCode(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	logger := zap.New(core)

	LogError(logger, NewAppError(ErrConflict, "duplicate", nil), "insert failed", zap.String("user_id", "user_1"))
	LogError(logger, nil, "ignored")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, ErrConflict, fields["error_code"])
	assert.Equal(t, "user_1", fields["user_id"])
}
