package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kenang-app/kenang-billing/internal/app"
	"github.com/kenang-app/kenang-billing/internal/config"
	grpcServer "github.com/kenang-app/kenang-billing/internal/infrastructure/grpc"
	httpServer "github.com/kenang-app/kenang-billing/internal/infrastructure/http"
	"github.com/kenang-app/kenang-billing/internal/infrastructure/scheduler"
	"github.com/kenang-app/kenang-billing/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// .env is optional; real deployments inject env vars directly
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
		Service:     cfg.Service.Name,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	httpSrv := httpServer.NewServer(cfg, zapLogger, httpServer.Services{
		Checkout:      a.Checkout,
		Subscriptions: a.Subscriptions,
		Webhooks:      a.Webhooks,
	}, a.Ping)
	grpcSrv := grpcServer.NewServer(cfg, zapLogger, a.Ping)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(httpSrv.Start)
	g.Go(grpcSrv.Start)

	if cfg.Sweeper.Enabled {
		sched := scheduler.NewScheduler(a.Sweeper, cfg.Sweeper.Interval, zapLogger)
		g.Go(func() error { return sched.Start(gctx) })
	} else {
		zapLogger.Info("Expiry scheduler disabled; run cmd/sweeper from cron instead")
	}

	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("Shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := grpcSrv.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("Failed to shutdown gRPC server", zap.Error(err))
		}
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		zapLogger.Error("Server stopped with error", zap.Error(err))
		return
	}

	zapLogger.Info("Servers shut down successfully")
}
