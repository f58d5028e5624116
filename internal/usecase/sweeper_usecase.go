package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kenang-app/kenang-billing/internal/domain/entity"
	"github.com/kenang-app/kenang-billing/internal/domain/event"
	"github.com/kenang-app/kenang-billing/internal/domain/plan"
	"github.com/kenang-app/kenang-billing/internal/domain/repository"
	"github.com/kenang-app/kenang-billing/pkg/messaging"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const sweepBatchSize = 500

// Locker is a lock shared between replicas
type Locker interface {
	Acquire(ctx context.Context) (func(context.Context) error, error)
}

// SweeperUsecase expires lapsed subscriptions and demotes their owners
type SweeperUsecase struct {
	subscriptionRepo repository.SubscriptionRepository
	userRepo         repository.UserRepository
	tx               repository.Transactor
	locker           Locker
	publisher        event.Publisher
	logger           *zap.Logger
	now              func() time.Time
	batchSize        int
	group            singleflight.Group
}

// NewSweeperUsecase creates the sweeper. locker may be nil, in which case
// only in-process single flight applies.
func NewSweeperUsecase(
	subscriptionRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
	tx repository.Transactor,
	locker Locker,
	publisher event.Publisher,
	logger *zap.Logger,
	opts ...Option,
) *SweeperUsecase {
	o := buildOptions(opts)
	return &SweeperUsecase{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		tx:               tx,
		locker:           locker,
		publisher:        publisher,
		logger:           logger,
		now:              o.now,
		batchSize:        o.batchSize,
	}
}

// ExpireSubscriptions runs one sweep and returns how many subscriptions it
// moved to expired. Concurrent callers in this process share one sweep; a
// sweep held by another replica makes this a no-op.
func (u *SweeperUsecase) ExpireSubscriptions(ctx context.Context) (int, error) {
	v, err, _ := u.group.Do("expire", func() (interface{}, error) {
		return u.sweepLocked(ctx)
	})
	count, _ := v.(int)
	return count, err
}

func (u *SweeperUsecase) sweepLocked(ctx context.Context) (int, error) {
	if u.locker == nil {
		return u.sweep(ctx)
	}

	release, err := u.locker.Acquire(ctx)
	if errors.Is(err, messaging.ErrLockHeld) {
		u.logger.Debug("Sweep skipped, lock held by another replica")
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			u.logger.Warn("Failed to release sweeper lock", zap.Error(err))
		}
	}()

	return u.sweep(ctx)
}

func (u *SweeperUsecase) sweep(ctx context.Context) (int, error) {
	now := u.now()
	count := 0
	var errs []error
	// rows that failed stay active and come back in later batches
	failed := make(map[uuid.UUID]struct{})

	for {
		lapsed, err := u.subscriptionRepo.ListLapsed(ctx, now, u.batchSize)
		if err != nil {
			return count, err
		}

		expired := 0
		for _, sub := range lapsed {
			if _, seen := failed[sub.ID]; seen {
				continue
			}
			ok, err := u.expire(ctx, sub)
			if err != nil {
				failed[sub.ID] = struct{}{}
				u.logger.Error("Failed to expire subscription",
					zap.String("subscription_id", sub.ID.String()),
					zap.String("user_id", sub.UserID.String()),
					zap.Error(err))
				errs = append(errs, err)
				continue
			}
			if !ok {
				continue
			}
			expired++

			u.logger.Info("Subscription expired",
				zap.String("subscription_id", sub.ID.String()),
				zap.String("user_id", sub.UserID.String()),
				zap.String("plan_id", sub.PlanID))

			publishAll(ctx, u.publisher, u.logger, []event.SubscriptionEvent{{
				Type:           event.SubscriptionExpired,
				UserID:         sub.UserID.String(),
				SubscriptionID: sub.ID.String(),
				PlanID:         sub.PlanID,
				Tier:           string(plan.TierFree),
				OccurredAt:     now,
			}})
		}
		count += expired

		if len(lapsed) < u.batchSize || expired == 0 || ctx.Err() != nil {
			break
		}
	}

	if count > 0 {
		u.logger.Info("Expired subscriptions batch", zap.Int("count", count))
	}

	return count, errors.Join(errs...)
}

// expire reports false when the subscription was no longer active
func (u *SweeperUsecase) expire(ctx context.Context, sub *entity.Subscription) (bool, error) {
	var transitioned bool

	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ok, err := u.subscriptionRepo.MarkExpired(ctx, sub.ID)
		if err != nil || !ok {
			return err
		}
		transitioned = true

		return u.demoteIfIdle(ctx, sub.UserID)
	})
	if err != nil {
		return false, err
	}

	return transitioned, nil
}

// demoteIfIdle resets the user to free unless another subscription is still
// active
func (u *SweeperUsecase) demoteIfIdle(ctx context.Context, userID uuid.UUID) error {
	user, err := u.userRepo.GetByIDForUpdate(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	active, err := u.subscriptionRepo.CountActiveByUser(ctx, userID)
	if err != nil {
		return err
	}
	if active > 0 {
		return nil
	}

	return u.userRepo.UpdateTier(ctx, userID, plan.TierFree, nil)
}
