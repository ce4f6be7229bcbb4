package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/semo-customer/internal/domain/entity"
	"github.com/wekeepgrowing/semo-customer/internal/middleware/auth"
	"github.com/wekeepgrowing/semo-customer/internal/usecase"
	"go.uber.org/zap"
)

// HeaderData is the membership shown in the marketing header; nil when anonymous.
type HeaderData struct {
	Membership *entity.Membership `json:"membership"`
}

// DashboardHandler serves the page-load triggers of the web application
type DashboardHandler struct {
	logger    *zap.Logger
	customers *usecase.CustomerService
}

func NewDashboardHandler(logger *zap.Logger, customers *usecase.CustomerService) *DashboardHandler {
	return &DashboardHandler{
		logger:    logger,
		customers: customers,
	}
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	principal, err := auth.RequireAuth(c)
	if principal == nil {
		return err
	}

	return c.JSON(http.StatusOK, h.customers.DashboardData(c.Request().Context(), *principal))
}

// GetHeader handles GET /api/v1/header
func (h *DashboardHandler) GetHeader(c echo.Context) error {
	principal, ok := auth.GetPrincipalFromContext(c)
	if !ok {
		return c.JSON(http.StatusOK, HeaderData{})
	}

	membership := h.customers.ResolveMembership(c.Request().Context(), principal.UserID)
	return c.JSON(http.StatusOK, HeaderData{Membership: &membership})
}
