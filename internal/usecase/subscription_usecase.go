package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kenang-app/kenang-billing/internal/domain/entity"
	domainErrors "github.com/kenang-app/kenang-billing/internal/domain/errors"
	"github.com/kenang-app/kenang-billing/internal/domain/event"
	"github.com/kenang-app/kenang-billing/internal/domain/plan"
	"github.com/kenang-app/kenang-billing/internal/domain/repository"
	"go.uber.org/zap"
)

// SubscriptionUsecase owns subscription state and keeps the user's tier in
// sync with it. Every mutation runs in one transaction.
type SubscriptionUsecase struct {
	catalog          *plan.Catalog
	subscriptionRepo repository.SubscriptionRepository
	paymentRepo      repository.PaymentRepository
	userRepo         repository.UserRepository
	tx               repository.Transactor
	publisher        event.Publisher
	logger           *zap.Logger
	now              func() time.Time
}

func NewSubscriptionUsecase(
	catalog *plan.Catalog,
	subscriptionRepo repository.SubscriptionRepository,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	tx repository.Transactor,
	publisher event.Publisher,
	logger *zap.Logger,
	opts ...Option,
) *SubscriptionUsecase {
	o := buildOptions(opts)
	return &SubscriptionUsecase{
		catalog:          catalog,
		subscriptionRepo: subscriptionRepo,
		paymentRepo:      paymentRepo,
		userRepo:         userRepo,
		tx:               tx,
		publisher:        publisher,
		logger:           logger,
		now:              o.now,
	}
}

// ListPlans returns the catalog ordered by price
func (u *SubscriptionUsecase) ListPlans(includeFree bool) []plan.Plan {
	return u.catalog.List(includeFree)
}

// CreateSubscription activates planID for userID, paid by paymentID
func (u *SubscriptionUsecase) CreateSubscription(ctx context.Context, userID uuid.UUID, planID string, paymentID uuid.UUID) (*entity.Subscription, error) {
	var (
		sub    *entity.Subscription
		events []event.SubscriptionEvent
	)

	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		sub, events, err = u.activate(ctx, userID, planID, paymentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	publishAll(ctx, u.publisher, u.logger, events)
	return sub, nil
}

// activate must run inside a transaction. It supersedes any active
// subscription of the user, creates the new one and syncs the tier.
func (u *SubscriptionUsecase) activate(ctx context.Context, userID uuid.UUID, planID string, paymentID uuid.UUID) (*entity.Subscription, []event.SubscriptionEvent, error) {
	user, err := u.userRepo.GetByIDForUpdate(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, domainErrors.ErrUserNotFound
	}

	p, ok := u.catalog.Get(planID)
	if !ok {
		return nil, nil, domainErrors.ErrInvalidPlan
	}

	payment, err := u.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	if payment == nil {
		return nil, nil, domainErrors.ErrPaymentNotFound
	}
	if !payment.IsSuccessful() {
		return nil, nil, domainErrors.ErrPaymentNotSuccessful
	}

	now := u.now()
	var events []event.SubscriptionEvent

	for {
		previous, err := u.subscriptionRepo.GetActiveByUser(ctx, userID)
		if err != nil {
			return nil, nil, err
		}
		if previous == nil {
			break
		}

		previous.Status = entity.SubscriptionStatusCancelled
		previous.CancelledAt = &now
		previous.CurrentPeriodEnd = now
		if err := u.subscriptionRepo.Update(ctx, previous); err != nil {
			return nil, nil, err
		}

		u.logger.Info("Superseded active subscription",
			zap.String("subscription_id", previous.ID.String()),
			zap.String("user_id", userID.String()),
			zap.String("plan_id", previous.PlanID))

		events = append(events, event.SubscriptionEvent{
			Type:           event.SubscriptionCancelled,
			UserID:         userID.String(),
			SubscriptionID: previous.ID.String(),
			PlanID:         previous.PlanID,
			Tier:           string(p.Tier),
			Immediate:      true,
			OccurredAt:     now,
		})
	}

	periodEnd := p.PeriodEnd(now)
	sub := &entity.Subscription{
		UserID:             userID,
		PlanID:             p.ID,
		Status:             entity.SubscriptionStatusActive,
		Provider:           payment.Provider,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   periodEnd,
	}
	if err := u.subscriptionRepo.Create(ctx, sub); err != nil {
		return nil, nil, err
	}

	if err := u.userRepo.UpdateTier(ctx, userID, p.Tier, &periodEnd); err != nil {
		return nil, nil, err
	}

	u.logger.Info("Subscription created",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("plan_id", p.ID),
		zap.String("tier", string(p.Tier)),
		zap.Time("period_end", periodEnd))

	events = append(events, event.SubscriptionEvent{
		Type:           event.SubscriptionActivated,
		UserID:         userID.String(),
		SubscriptionID: sub.ID.String(),
		PlanID:         p.ID,
		Tier:           string(p.Tier),
		OccurredAt:     now,
	})

	return sub, events, nil
}

// CancelSubscription cancels subscriptionID on behalf of userID. An immediate
// cancel ends the period now and demotes the user; otherwise the
// subscription runs to its period end and the sweeper finishes it.
func (u *SubscriptionUsecase) CancelSubscription(ctx context.Context, subscriptionID, userID uuid.UUID, immediate bool) (*entity.Subscription, error) {
	var sub *entity.Subscription
	now := u.now()

	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		sub, err = u.subscriptionRepo.GetByID(ctx, subscriptionID)
		if err != nil {
			return err
		}
		if sub == nil {
			return domainErrors.ErrSubscriptionNotFound
		}
		if sub.UserID != userID {
			return domainErrors.ErrForbidden
		}
		if !sub.IsActive() {
			return domainErrors.ErrSubscriptionNotActive
		}

		sub.CancelledAt = &now
		if immediate {
			sub.Status = entity.SubscriptionStatusCancelled
			sub.CurrentPeriodEnd = now
		}
		if err := u.subscriptionRepo.Update(ctx, sub); err != nil {
			return err
		}

		if immediate {
			if _, err := u.userRepo.GetByIDForUpdate(ctx, userID); err != nil {
				return err
			}
			if err := u.userRepo.UpdateTier(ctx, userID, plan.TierFree, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("Subscription cancelled",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Bool("immediate", immediate))

	tier := plan.TierFree
	if !immediate {
		if p, ok := u.catalog.Get(sub.PlanID); ok {
			tier = p.Tier
		}
	}

	publishAll(ctx, u.publisher, u.logger, []event.SubscriptionEvent{{
		Type:           event.SubscriptionCancelled,
		UserID:         userID.String(),
		SubscriptionID: sub.ID.String(),
		PlanID:         sub.PlanID,
		Tier:           string(tier),
		Immediate:      immediate,
		OccurredAt:     now,
	}})

	return sub, nil
}

// GetCurrentSubscription returns the user's active subscription and its plan
func (u *SubscriptionUsecase) GetCurrentSubscription(ctx context.Context, userID uuid.UUID) (*entity.CurrentSubscription, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainErrors.ErrUserNotFound
	}

	sub, err := u.subscriptionRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domainErrors.ErrNoActiveSubscription
	}

	p, ok := u.catalog.Get(sub.PlanID)
	if !ok {
		return nil, fmt.Errorf("subscription %s references unknown plan %q", sub.ID, sub.PlanID)
	}

	return &entity.CurrentSubscription{
		Subscription: sub,
		Plan:         p,
	}, nil
}

// GetPaymentHistory returns one page of the user's payments, newest first
func (u *SubscriptionUsecase) GetPaymentHistory(ctx context.Context, userID uuid.UUID, params entity.PageParams) (*entity.PaymentHistory, error) {
	params.Normalize()

	payments, total, err := u.paymentRepo.ListByUser(ctx, userID, params)
	if err != nil {
		u.logger.Error("Failed to get payment history",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, err
	}

	return &entity.PaymentHistory{
		Payments: payments,
		Total:    total,
		Limit:    params.Limit,
		Offset:   params.Offset,
	}, nil
}

// CheckFeatureAccess reports whether the user's current tier unlocks feature
func (u *SubscriptionUsecase) CheckFeatureAccess(ctx context.Context, userID uuid.UUID, feature string) (*entity.FeatureAccess, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainErrors.ErrUserNotFound
	}

	tier := user.Tier
	if !tier.Valid() {
		tier = plan.TierFree
	}

	allowed := plan.HasAccess(tier, plan.Feature(feature))

	u.logger.Debug("Feature access checked",
		zap.String("user_id", userID.String()),
		zap.String("feature", feature),
		zap.String("tier", string(tier)),
		zap.Bool("allowed", allowed))

	return &entity.FeatureAccess{
		Feature: feature,
		Tier:    string(tier),
		Allowed: allowed,
	}, nil
}

// CancelCurrentSubscription cancels whatever subscription the user has active
func (u *SubscriptionUsecase) CancelCurrentSubscription(ctx context.Context, userID uuid.UUID, immediate bool) (*entity.Subscription, error) {
	sub, err := u.subscriptionRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domainErrors.ErrNoActiveSubscription
	}

	return u.CancelSubscription(ctx, sub.ID, userID, immediate)
}
