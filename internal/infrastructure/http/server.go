package http

import (
	"context"
	"errors"
	"net/http"

	handlers "github.com/kenang-app/kenang-billing/internal/adapter/handler/http"
	"github.com/kenang-app/kenang-billing/internal/config"
	"github.com/kenang-app/kenang-billing/internal/middleware/auth"
	"github.com/kenang-app/kenang-billing/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Services are the usecases exposed over HTTP.
type Services struct {
	Checkout      handlers.CheckoutService
	Subscriptions handlers.SubscriptionService
	Webhooks      handlers.NotificationProcessor
}

// HealthChecker reports whether the service can reach its dependencies.
type HealthChecker func(ctx context.Context) error

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	services Services
	health   HealthChecker
}

func NewServer(cfg *config.Config, log *zap.Logger, services Services, health HealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	logger.WithEchoLogger(e, log)
	e.Validator = handlers.NewRequestValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	s := &Server{
		config:   cfg,
		logger:   log,
		echo:     e,
		services: services,
		health:   health,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	addr := s.config.Server.HTTP.Addr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	plansHandler := handlers.NewPlansHandler(s.logger, s.services.Subscriptions)
	checkoutHandler := handlers.NewCheckoutHandler(s.logger, s.services.Checkout)
	subscriptionHandler := handlers.NewSubscriptionHandler(s.logger, s.services.Subscriptions)
	webhookHandler := handlers.NewWebhookHandler(s.logger, s.services.Webhooks)

	jwtConfig := auth.JWTConfig{
		Secret: s.config.JWT.Secret,
		Logger: s.logger,
	}

	v1 := s.echo.Group("/api/v1")

	// Public routes
	v1.GET("/subscriptions/plans", plansHandler.GetPlans)
	v1.POST("/webhooks/midtrans", webhookHandler.HandleMidtransNotification)

	// Protected routes (require JWT authentication)
	subscriptions := v1.Group("/subscriptions", auth.JWTMiddleware(jwtConfig))
	subscriptions.POST("/checkout", checkoutHandler.CreateCheckout)
	subscriptions.GET("/current", subscriptionHandler.GetCurrentSubscription)
	subscriptions.POST("/cancel", subscriptionHandler.CancelSubscription)
	subscriptions.GET("/history", subscriptionHandler.GetPaymentHistory)
	subscriptions.GET("/features/:feature", subscriptionHandler.CheckFeatureAccess)
}

func (s *Server) healthCheck(c echo.Context) error {
	status := http.StatusOK
	body := map[string]string{
		"status":  "healthy",
		"service": s.config.Service.Name,
		"version": s.config.Service.Version,
	}

	if s.health != nil {
		if err := s.health(c.Request().Context()); err != nil {
			s.logger.Warn("Health check failed", zap.Error(err))
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
		}
	}

	return c.JSON(status, body)
}
