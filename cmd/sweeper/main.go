// Command sweeper runs a single subscription expiry pass and exits. It is
// meant for cron when the in-server scheduler is disabled.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kenang-app/kenang-billing/internal/app"
	"github.com/kenang-app/kenang-billing/internal/config"
	"github.com/kenang-app/kenang-billing/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		FilePath:    cfg.Log.FilePath,
		Development: cfg.Log.Development,
		Service:     cfg.Service.Name + "-sweeper",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg, zapLogger)
	stop()
	_ = zapLogger.Sync()
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) int {
	a, err := app.New(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Error("Failed to initialize application", zap.Error(err))
		return 1
	}
	defer a.Close()

	expired, err := a.Sweeper.ExpireSubscriptions(ctx)
	if err != nil {
		zapLogger.Error("Expiry sweep failed", zap.Int("expired", expired), zap.Error(err))
		return 1
	}

	zapLogger.Info("Expiry sweep finished", zap.Int("expired", expired))
	return 0
}
