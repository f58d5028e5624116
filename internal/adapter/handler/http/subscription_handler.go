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

type SubscriptionHandler struct {
	logger        *zap.Logger
	subscriptions SubscriptionService
}

func NewSubscriptionHandler(logger *zap.Logger, subscriptions SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		logger:        logger,
		subscriptions: subscriptions,
	}
}

func (h *SubscriptionHandler) GetCurrentSubscription(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	current, err := h.subscriptions.GetCurrentSubscription(c.Request().Context(), user.UserID)
	if err != nil {
		apperrors.LogError(h.logger, err, "Failed to get current subscription",
			zap.String("user_id", user.UserID.String()))
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.CurrentSubscriptionResponse{
		Subscription: dto.NewSubscriptionDTO(current.Subscription),
		Plan:         current.Plan,
	})
}

// CancelSubscription cancels the given subscription, or the caller's active
// one when no id is sent. Deferred cancellation keeps access until the
// period ends.
func (h *SubscriptionHandler) CancelSubscription(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req dto.CancelRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	var sub *entity.Subscription
	if req.SubscriptionID != nil {
		sub, err = h.subscriptions.CancelSubscription(ctx, *req.SubscriptionID, user.UserID, req.Immediate)
	} else {
		sub, err = h.subscriptions.CancelCurrentSubscription(ctx, user.UserID, req.Immediate)
	}
	if err != nil {
		apperrors.LogError(h.logger, err, "Failed to cancel subscription",
			zap.String("user_id", user.UserID.String()),
			zap.Bool("immediate", req.Immediate))
		return apperrors.ToHTTPError(err)
	}

	h.logger.Info("Subscription cancelled",
		zap.String("user_id", user.UserID.String()),
		zap.String("subscription_id", sub.ID.String()),
		zap.Bool("immediate", req.Immediate))

	return c.JSON(http.StatusOK, dto.NewSubscriptionDTO(sub))
}

func (h *SubscriptionHandler) GetPaymentHistory(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var params entity.PageParams
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &params); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "limit and offset must be integers")
	}

	history, err := h.subscriptions.GetPaymentHistory(c.Request().Context(), user.UserID, params)
	if err != nil {
		apperrors.LogError(h.logger, err, "Failed to get payment history",
			zap.String("user_id", user.UserID.String()))
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.NewPaymentHistoryResponse(history))
}

func (h *SubscriptionHandler) CheckFeatureAccess(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	feature := c.Param("feature")

	access, err := h.subscriptions.CheckFeatureAccess(c.Request().Context(), user.UserID, feature)
	if err != nil {
		apperrors.LogError(h.logger, err, "Failed to check feature access",
			zap.String("user_id", user.UserID.String()),
			zap.String("feature", feature))
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.FeatureAccessResponse{
		Feature: access.Feature,
		Tier:    access.Tier,
		Allowed: access.Allowed,
	})
}
