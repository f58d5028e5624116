package http

import (
	"io"
	"net/http"

	"github.com/kenang-app/kenang-billing/internal/domain/dto"
	"github.com/kenang-app/kenang-billing/internal/domain/entity"
	apperrors "github.com/kenang-app/kenang-billing/pkg/errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// maxNotificationBytes bounds the notification body read into memory.
const maxNotificationBytes = 1 << 20

type WebhookHandler struct {
	logger    *zap.Logger
	processor NotificationProcessor
}

func NewWebhookHandler(logger *zap.Logger, processor NotificationProcessor) *WebhookHandler {
	return &WebhookHandler{
		logger:    logger,
		processor: processor,
	}
}

// HandleMidtransNotification always answers 200. Midtrans retries anything
// else, and a rejected notification will not verify on the next attempt
// either.
func (h *WebhookHandler) HandleMidtransNotification(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxNotificationBytes))
	if err != nil {
		h.logger.Error("Failed to read webhook body", zap.Error(err))
		return c.JSON(http.StatusOK, dto.WebhookResponse{
			Status:  dto.WebhookStatusError,
			Message: "Failed to read request body",
		})
	}

	result, err := h.processor.HandleNotification(c.Request().Context(), body)
	orderID := ""
	if result != nil {
		orderID = result.OrderID
	}

	if err != nil {
		apperrors.LogError(h.logger, err, "Failed to process Midtrans notification",
			zap.String("order_id", orderID))
		return c.JSON(http.StatusOK, dto.WebhookResponse{
			Status:  dto.WebhookStatusError,
			Message: webhookErrorMessage(err),
			OrderID: orderID,
		})
	}

	h.logger.Info("Midtrans notification processed",
		zap.String("order_id", orderID),
		zap.String("payment_status", string(result.PaymentStatus)),
		zap.String("outcome", string(result.Outcome)),
		zap.String("subscription_id", result.SubscriptionID))

	return c.JSON(http.StatusOK, dto.WebhookResponse{
		Status:  dto.WebhookStatusOK,
		Message: webhookOKMessage(result.Outcome),
		OrderID: orderID,
	})
}

func webhookOKMessage(outcome entity.WebhookOutcome) string {
	switch outcome {
	case entity.WebhookOutcomeDuplicate:
		return "Notification already processed"
	case entity.WebhookOutcomeActivated:
		return "Payment settled and subscription activated"
	default:
		return "Notification processed"
	}
}

func webhookErrorMessage(err error) string {
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		return appErr.Message()
	}
	return "Internal error"
}
