package http

import (
	"net/http"
	"strconv"

	"github.com/kenang-app/kenang-billing/internal/domain/dto"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type PlansHandler struct {
	logger        *zap.Logger
	subscriptions SubscriptionService
}

func NewPlansHandler(logger *zap.Logger, subscriptions SubscriptionService) *PlansHandler {
	return &PlansHandler{
		logger:        logger,
		subscriptions: subscriptions,
	}
}

// GetPlans lists the catalog, cheapest first. The free plan is only included
// with ?include_free=true.
func (h *PlansHandler) GetPlans(c echo.Context) error {
	includeFree := false
	if raw := c.QueryParam("include_free"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "include_free must be a boolean")
		}
		includeFree = v
	}

	plans := h.subscriptions.ListPlans(includeFree)

	h.logger.Debug("Plans listed",
		zap.Int("count", len(plans)),
		zap.Bool("include_free", includeFree))

	return c.JSON(http.StatusOK, dto.PlanListResponse{Plans: plans})
}
