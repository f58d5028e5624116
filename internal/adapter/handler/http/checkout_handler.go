package http

import (
	"net/http"

	"github.com/kenang-app/kenang-billing/internal/domain/dto"
	"github.com/kenang-app/kenang-billing/internal/domain/entity"
	"github.com/kenang-app/kenang-billing/internal/middleware/auth"
	apperrors "github.com/kenang-app/kenang-billing/pkg/errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	logger   *zap.Logger
	checkout CheckoutService
}

func NewCheckoutHandler(logger *zap.Logger, checkout CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		logger:   logger,
		checkout: checkout,
	}
}

// CreateCheckout opens a Snap session for the requested plan
func (h *CheckoutHandler) CreateCheckout(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req dto.CheckoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	h.logger.Info("Creating checkout",
		zap.String("user_id", user.UserID.String()),
		zap.String("plan_id", req.PlanID),
		zap.String("payment_method", req.PaymentMethod))

	result, err := h.checkout.CreateCheckout(c.Request().Context(), entity.CheckoutRequest{
		UserID:        user.UserID,
		PlanID:        req.PlanID,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		apperrors.LogError(h.logger, err, "Failed to create checkout",
			zap.String("user_id", user.UserID.String()),
			zap.String("plan_id", req.PlanID))
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.NewCheckoutResponse(result))
}
