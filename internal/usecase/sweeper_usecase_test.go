package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kenang-app/kenang-billing/internal/domain/entity"
	"github.com/kenang-app/kenang-billing/internal/domain/event"
	"github.com/kenang-app/kenang-billing/internal/domain/plan"
	"github.com/kenang-app/kenang-billing/internal/usecase"
	"github.com/kenang-app/kenang-billing/pkg/messaging"
)

func newSweeper(h *harness, locker usecase.Locker) *usecase.SweeperUsecase {
	return usecase.NewSweeperUsecase(h.subs, h.users, h.tx, locker, h.publisher, zap.NewNop(), usecase.WithClock(h.clock.Now))
}

func TestSweeperUsecase_ExpireSubscriptions(t *testing.T) {
	ctx := context.Background()

	t.Run("expires lapsed subscriptions once", func(t *testing.T) {
		h := newHarness(t)
		sweeper := newSweeper(h, nil)
		userID := h.seedUser(t)
		sub := activePlan(t, h, userID, "personal")

		count, err := sweeper.ExpireSubscriptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count, "period has not ended yet")

		h.clock.Advance(31 * 24 * time.Hour)

		count, err = sweeper.ExpireSubscriptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		stored, err := h.subs.GetByID(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.SubscriptionStatusExpired, stored.Status)
		assert.Equal(t, plan.TierFree, h.user(t, userID).Tier)
		assert.Contains(t, h.publisher.Types(), event.SubscriptionExpired)

		count, err = sweeper.ExpireSubscriptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("deferred cancel ends at period end", func(t *testing.T) {
		h := newHarness(t)
		sweeper := newSweeper(h, nil)
		userID := h.seedUser(t)
		sub := activePlan(t, h, userID, "plus")

		_, err := h.subscriptions.CancelSubscription(ctx, sub.ID, userID, false)
		require.NoError(t, err)

		h.clock.Advance(29 * 24 * time.Hour)
		count, err := sweeper.ExpireSubscriptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
		assert.Equal(t, plan.TierPlus, h.user(t, userID).Tier)

		h.clock.Advance(2 * 24 * time.Hour)
		count, err = sweeper.ExpireSubscriptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.Equal(t, plan.TierFree, h.user(t, userID).Tier)
	})

	t.Run("keeps tier while another subscription is active", func(t *testing.T) {
		h := newHarness(t)
		sweeper := newSweeper(h, nil)
		userID := h.seedUser(t)
		now := h.clock.Now()

		lapsed := &entity.Subscription{
			UserID: userID, PlanID: "personal", Status: entity.SubscriptionStatusActive, Provider: entity.ProviderMidtrans,
			CurrentPeriodStart: now.AddDate(0, 0, -31), CurrentPeriodEnd: now.AddDate(0, 0, -1),
		}
		current := &entity.Subscription{
			UserID: userID, PlanID: "premium", Status: entity.SubscriptionStatusActive, Provider: entity.ProviderMidtrans,
			CurrentPeriodStart: now, CurrentPeriodEnd: now.AddDate(0, 0, 30),
		}
		require.NoError(t, h.subs.Create(ctx, lapsed))
		require.NoError(t, h.subs.Create(ctx, current))
		end := current.CurrentPeriodEnd
		require.NoError(t, h.users.UpdateTier(ctx, userID, plan.TierPremium, &end))

		count, err := sweeper.ExpireSubscriptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.Equal(t, plan.TierPremium, h.user(t, userID).Tier)
	})

	t.Run("sweeps many users", func(t *testing.T) {
		h := newHarness(t)
		sweeper := newSweeper(h, nil)
		var users []uuid.UUID
		for i := 0; i < 4; i++ {
			userID := h.seedUser(t)
			activePlan(t, h, userID, "personal")
			users = append(users, userID)
		}

		h.clock.Advance(40 * 24 * time.Hour)
		count, err := sweeper.ExpireSubscriptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, count)
		for _, userID := range users {
			assert.Equal(t, plan.TierFree, h.user(t, userID).Tier)
		}
	})

	t.Run("skips while another replica holds the lock", func(t *testing.T) {
		h := newHarness(t)
		mr := miniredis.RunT(t)
		client, err := messaging.NewRedisClient(ctx, messaging.Options{Addr: mr.Addr()})
		require.NoError(t, err)
		defer client.Close()

		lock := messaging.NewLock(client.Client(), "billing:sweeper", time.Minute)
		sweeper := newSweeper(h, lock)
		userID := h.seedUser(t)
		activePlan(t, h, userID, "personal")
		h.clock.Advance(31 * 24 * time.Hour)

		release, err := messaging.NewLock(client.Client(), "billing:sweeper", time.Minute).Acquire(ctx)
		require.NoError(t, err)

		count, err := sweeper.ExpireSubscriptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		require.NoError(t, release(ctx))

		count, err = sweeper.ExpireSubscriptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.False(t, mr.Exists("billing:sweeper"), "lock released after sweep")
	})
}

func TestSweeperUsecase_FailingSubscriptionReportedOnce(t *testing.T) {
	ctx := context.Background()
	subs := new(MockSubscriptionRepository)
	users := new(MockUserRepository)

	lapsed := func() *entity.Subscription {
		return &entity.Subscription{ID: uuid.New(), UserID: uuid.New(), PlanID: "personal", Status: entity.SubscriptionStatusActive}
	}
	stuck, first, second := lapsed(), lapsed(), lapsed()
	boom := errors.New("row locked")

	subs.On("ListLapsed", mock.Anything, mock.Anything, 2).Return([]*entity.Subscription{stuck, first}, nil).Once()
	subs.On("ListLapsed", mock.Anything, mock.Anything, 2).Return([]*entity.Subscription{stuck, second}, nil).Once()
	subs.On("ListLapsed", mock.Anything, mock.Anything, 2).Return([]*entity.Subscription{stuck}, nil).Once()
	subs.On("MarkExpired", mock.Anything, stuck.ID).Return(false, boom).Once()
	subs.On("MarkExpired", mock.Anything, first.ID).Return(true, nil)
	subs.On("MarkExpired", mock.Anything, second.ID).Return(true, nil)
	users.On("GetByIDForUpdate", mock.Anything, mock.Anything).Return(nil, nil)

	sweeper := usecase.NewSweeperUsecase(subs, users, inlineTransactor{}, nil, &recordingPublisher{}, zap.NewNop(), usecase.WithBatchSize(2))

	count, err := sweeper.ExpireSubscriptions(ctx)

	assert.Equal(t, 2, count)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	assert.Len(t, joined.Unwrap(), 1)
	subs.AssertExpectations(t)
	subs.AssertNumberOfCalls(t, "MarkExpired", 3)
}
