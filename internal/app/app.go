// Package app wires configuration, storage, messaging and usecases into the
// object graph shared by the server and the one-shot sweeper.
package app

import (
	"context"
	"errors"
	"fmt"

	adapterEvent "github.com/kenang-app/kenang-billing/internal/adapter/event"
	"github.com/kenang-app/kenang-billing/internal/config"
	"github.com/kenang-app/kenang-billing/internal/domain/event"
	"github.com/kenang-app/kenang-billing/internal/domain/plan"
	"github.com/kenang-app/kenang-billing/internal/infrastructure/database"
	providerFactory "github.com/kenang-app/kenang-billing/internal/infrastructure/provider"
	"github.com/kenang-app/kenang-billing/internal/usecase"
	"github.com/kenang-app/kenang-billing/pkg/messaging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sweeperLockKey = "billing:sweeper:lock"

// App holds the wired usecases and the resources Close releases.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	DB      *gorm.DB
	Catalog *plan.Catalog

	Checkout      *usecase.CheckoutUsecase
	Subscriptions *usecase.SubscriptionUsecase
	Webhooks      *usecase.WebhookUsecase
	Sweeper       *usecase.SweeperUsecase

	redis messaging.RedisClient
}

// New connects to the database (and Redis when enabled) and builds every
// usecase. A missing Midtrans configuration is not fatal: checkout then
// answers PAYMENT_NOT_CONFIGURED.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	catalog, err := plan.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load plan catalog: %w", err)
	}

	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, logger); err != nil {
			_ = database.Close(db, logger)
			return nil, err
		}
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Catalog: catalog,
	}

	var publisher event.Publisher = event.NopPublisher{}
	var locker usecase.Locker
	if cfg.Redis.Enabled {
		client, err := messaging.NewRedisClient(ctx, messaging.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		publisher = adapterEvent.NewRedisPublisher(client, cfg.Redis.EventChannel, logger)
		locker = messaging.NewLock(client.Client(), sweeperLockKey, cfg.Sweeper.LockTTL)
		logger.Info("Redis connected",
			zap.String("addr", cfg.Redis.Addr),
			zap.String("event_channel", cfg.Redis.EventChannel))
	} else {
		logger.Info("Redis disabled, lifecycle events are not published")
	}

	factory := providerFactory.NewFactory(&cfg.Midtrans, logger)
	gateway, err := factory.Gateway()
	if err != nil {
		if !errors.Is(err, providerFactory.ErrNotConfigured) {
			a.Close()
			return nil, err
		}
		logger.Warn("Midtrans is not configured, checkout is disabled")
	}

	repos := database.NewRepositories(db, logger)

	a.Subscriptions = usecase.NewSubscriptionUsecase(
		catalog, repos.Subscription, repos.Payment, repos.User, repos.Transactor, publisher, logger)
	a.Checkout = usecase.NewCheckoutUsecase(
		catalog, gateway, repos.Payment, repos.User, cfg.Service.AppURL, logger)
	a.Webhooks = usecase.NewWebhookUsecase(
		factory.Codec(), catalog, repos.Payment, a.Subscriptions, repos.Transactor, publisher, logger)
	a.Sweeper = usecase.NewSweeperUsecase(
		repos.Subscription, repos.User, repos.Transactor, locker, publisher, logger)

	return a, nil
}

// Ping reports database reachability.
func (a *App) Ping(ctx context.Context) error {
	return database.Ping(ctx, a.DB)
}

// Close releases Redis and database connections.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}
	if err := database.Close(a.DB, a.Logger); err != nil {
		a.Logger.Error("Failed to close database connection", zap.Error(err))
	}
}
