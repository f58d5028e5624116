// Package scheduler runs the subscription expiry sweep periodically while the
// server is up.
package scheduler

import (
	"context"
	"time"

	apperrors "github.com/kenang-app/kenang-billing/pkg/errors"
	"go.uber.org/zap"
)

// Sweeper expires lapsed subscriptions and reports how many it transitioned.
type Sweeper interface {
	ExpireSubscriptions(ctx context.Context) (int, error)
}

// Scheduler calls Sweeper on a fixed interval
type Scheduler struct {
	sweeper  Sweeper
	interval time.Duration
	logger   *zap.Logger
}

func NewScheduler(sweeper Sweeper, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
	}
}

// Start sweeps once immediately, then on every tick until ctx is cancelled.
// A failed pass is logged and retried on the next tick.
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Expiry scheduler started", zap.Duration("interval", s.interval))

	s.run(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Expiry scheduler shutting down")
			return nil
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *Scheduler) run(ctx context.Context) {
	started := time.Now()

	expired, err := s.sweeper.ExpireSubscriptions(ctx)
	if err != nil {
		apperrors.LogError(s.logger, err, "Expiry sweep failed",
			zap.Int("expired", expired))
		return
	}

	if expired > 0 {
		s.logger.Info("Expired lapsed subscriptions",
			zap.Int("expired", expired),
			zap.Duration("duration", time.Since(started)))
		return
	}

	s.logger.Debug("Expiry sweep found nothing to expire")
}
