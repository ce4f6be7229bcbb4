package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	domainRepo "github.com/wekeepgrowing/semo-customer/internal/domain/repository"
	"github.com/wekeepgrowing/semo-customer/internal/infrastructure/webhook"
	"github.com/wekeepgrowing/semo-customer/internal/usecase"
	"go.uber.org/zap"
)

const EventTypeUserCreated = "user.created"

// clerkEvent holds the fields of a Clerk webhook this service reads.
type clerkEvent struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type WebhookHandler struct {
	logger    *zap.Logger
	verifier  webhook.Verifier
	customers *usecase.CustomerService
	events    domainRepo.WebhookEventRepository
}

// NewWebhookHandler creates the Clerk webhook receiver. events may be nil,
// in which case deliveries are not recorded.
func NewWebhookHandler(
	logger *zap.Logger,
	verifier webhook.Verifier,
	customers *usecase.CustomerService,
	events domainRepo.WebhookEventRepository,
) *WebhookHandler {
	return &WebhookHandler{
		logger:    logger,
		verifier:  verifier,
		customers: customers,
		events:    events,
	}
}

// HandleClerkWebhook handles POST /api/webhooks/clerk
func (h *WebhookHandler) HandleClerkWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Error reading request body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error reading request body"})
	}

	if err := h.verifier.Verify(body, c.Request().Header); err != nil {
		h.logger.Warn("Webhook verification failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Webhook verification failed"})
	}

	var evt clerkEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		h.logger.Error("Error parsing webhook", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error parsing webhook"})
	}

	ctx := c.Request().Context()
	eventID := c.Request().Header.Get(webhook.HeaderID)

	h.logger.Info("Webhook event received",
		zap.String("event_id", eventID),
		zap.String("event_type", evt.Type),
		zap.String("user_id", evt.Data.ID),
	)
	h.recordDelivery(ctx, eventID, evt)

	if evt.Type != EventTypeUserCreated {
		h.logger.Debug("Ignoring webhook event", zap.String("event_type", evt.Type))
		h.markProcessed(ctx, eventID)
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}

	result := h.customers.Provision(ctx, evt.Data.ID)
	if !result.Success {
		h.logger.Error("Customer creation deferred",
			zap.String("event_id", eventID),
			zap.String("user_id", evt.Data.ID))
		h.markFailed(ctx, eventID, errors.New("provisioning failed"))
		// 200 stops immediate redelivery; the next page load provisions on demand
		return c.JSON(http.StatusOK, echo.Map{
			"received": true,
			"warning":  "Customer creation deferred",
		})
	}

	if result.Created {
		h.logger.Info("Customer created from webhook", zap.String("user_id", evt.Data.ID))
	} else {
		h.logger.Info("Customer already exists", zap.String("user_id", evt.Data.ID))
	}
	h.markProcessed(ctx, eventID)

	return c.JSON(http.StatusOK, echo.Map{"received": true})
}

// The ledger is informational and never changes the response.

func (h *WebhookHandler) recordDelivery(ctx context.Context, eventID string, evt clerkEvent) {
	if h.events == nil {
		return
	}
	if err := h.events.RecordDelivery(ctx, eventID, evt.Type, evt.Data.ID); err != nil {
		h.logger.Warn("Failed to record webhook delivery", zap.String("event_id", eventID), zap.Error(err))
	}
}

func (h *WebhookHandler) markProcessed(ctx context.Context, eventID string) {
	if h.events == nil {
		return
	}
	if err := h.events.MarkProcessed(ctx, eventID); err != nil {
		h.logger.Warn("Failed to mark webhook processed", zap.String("event_id", eventID), zap.Error(err))
	}
}

func (h *WebhookHandler) markFailed(ctx context.Context, eventID string, cause error) {
	if h.events == nil {
		return
	}
	if err := h.events.MarkFailed(ctx, eventID, cause); err != nil {
		h.logger.Warn("Failed to mark webhook failed", zap.String("event_id", eventID), zap.Error(err))
	}
}
