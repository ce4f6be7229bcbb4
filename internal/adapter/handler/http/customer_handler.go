package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/semo-customer/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-customer/internal/domain/errors"
	"github.com/wekeepgrowing/semo-customer/internal/middleware/auth"
	"github.com/wekeepgrowing/semo-customer/internal/usecase"
	apperrors "github.com/wekeepgrowing/semo-customer/pkg/errors"
	"go.uber.org/zap"
)

// UpdateCustomerRequest is the body of the internal update endpoints.
// Omitted fields stay unchanged.
type UpdateCustomerRequest struct {
	Membership           *string `json:"membership" validate:"omitnil,oneof=free pro"`
	StripeCustomerID     *string `json:"stripeCustomerId" validate:"omitnil,min=1,max=255"`
	StripeSubscriptionID *string `json:"stripeSubscriptionId" validate:"omitnil,min=1,max=255"`
}

func (r UpdateCustomerRequest) toUpdate() entity.CustomerUpdate {
	update := entity.CustomerUpdate{
		StripeCustomerID:     r.StripeCustomerID,
		StripeSubscriptionID: r.StripeSubscriptionID,
	}
	if r.Membership != nil {
		membership := entity.Membership(*r.Membership)
		update.Membership = &membership
	}
	return update
}

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	logger    *zap.Logger
	customers *usecase.CustomerService
}

// NewCustomerHandler creates a new customer handler instance
func NewCustomerHandler(logger *zap.Logger, customers *usecase.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		logger:    logger,
		customers: customers,
	}
}

// CreateCustomer handles POST /api/v1/customers
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	principal, err := auth.RequireAuth(c)
	if principal == nil {
		return err
	}

	result := h.customers.Provision(c.Request().Context(), principal.UserID)
	if !result.Success {
		return c.JSON(http.StatusServiceUnavailable, usecase.ActionResult{IsSuccess: false})
	}

	return c.JSON(http.StatusOK, usecase.ActionResult{IsSuccess: true, Data: result.Customer})
}

// GetCurrentCustomer handles GET /api/v1/customers/me
func (h *CustomerHandler) GetCurrentCustomer(c echo.Context) error {
	principal, err := auth.RequireAuth(c)
	if principal == nil {
		return err
	}

	customer, err := h.customers.GetCustomerByUserID(c.Request().Context(), principal.UserID)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrUnavailable, "customer store unavailable", err)
	}
	if customer == nil {
		return apperrors.NewAppError(apperrors.ErrNotFound, "customer not found", domainErrors.ErrCustomerNotFound)
	}

	return c.JSON(http.StatusOK, customer)
}

// GetBillingData handles GET /api/v1/customers/me/billing
func (h *CustomerHandler) GetBillingData(c echo.Context) error {
	principal, err := auth.RequireAuth(c)
	if principal == nil {
		return err
	}

	data, err := h.customers.GetBillingData(c.Request().Context(), *principal)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrUnavailable, "customer store unavailable", err)
	}

	return c.JSON(http.StatusOK, data)
}

// UpdateByUserID handles PATCH /api/v1/internal/customers/:userId
func (h *CustomerHandler) UpdateByUserID(c echo.Context) error {
	update, err := h.bindUpdate(c)
	if err != nil {
		return err
	}

	result, err := h.customers.UpdateByUserID(c.Request().Context(), c.Param("userId"), update)
	return h.respondUpdate(c, result, err)
}

// UpdateByStripeCustomerID handles PATCH /api/v1/internal/customers/by-stripe/:stripeCustomerId
func (h *CustomerHandler) UpdateByStripeCustomerID(c echo.Context) error {
	update, err := h.bindUpdate(c)
	if err != nil {
		return err
	}

	result, err := h.customers.UpdateByStripeCustomerID(c.Request().Context(), c.Param("stripeCustomerId"), update)
	return h.respondUpdate(c, result, err)
}

func (h *CustomerHandler) bindUpdate(c echo.Context) (entity.CustomerUpdate, error) {
	var req UpdateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return entity.CustomerUpdate{}, apperrors.NewAppError(apperrors.ErrInvalidArgument, "invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return entity.CustomerUpdate{}, err
	}
	return req.toUpdate(), nil
}

func (h *CustomerHandler) respondUpdate(c echo.Context, result usecase.ActionResult, err error) error {
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, result)
	}
	if !result.IsSuccess {
		return c.JSON(http.StatusNotFound, result)
	}
	return c.JSON(http.StatusOK, result)
}
