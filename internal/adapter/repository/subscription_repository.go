package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kenang-app/kenang-billing/internal/domain/entity"
	"github.com/kenang-app/kenang-billing/internal/domain/model"
	"github.com/kenang-app/kenang-billing/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type subscriptionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB, logger *zap.Logger) repository.SubscriptionRepository {
	return &subscriptionRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new subscription
func (r *subscriptionRepository) Create(ctx context.Context, subscription *entity.Subscription) error {
	m := subscriptionToModel(subscription)

	if err := conn(ctx, r.db).Create(m).Error; err != nil {
		r.logger.Error("Failed to create subscription",
			zap.String("user_id", subscription.UserID.String()),
			zap.String("plan_id", subscription.PlanID),
			zap.Error(err))
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	subscription.ID = m.ID
	subscription.CreatedAt = m.CreatedAt
	subscription.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID retrieves a subscription by its ID
func (r *subscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Subscription, error) {
	var m model.Subscription

	err := conn(ctx, r.db).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get subscription by ID",
			zap.String("subscription_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return subscriptionToEntity(&m), nil
}

// GetActiveByUser retrieves the user's active subscription. When more than
// one is active the latest period end wins.
func (r *subscriptionRepository) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.Subscription, error) {
	var m model.Subscription

	err := conn(ctx, r.db).
		Where("user_id = ? AND status = ?", userID, string(entity.SubscriptionStatusActive)).
		Order("current_period_end DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get active subscription",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return subscriptionToEntity(&m), nil
}

// Update writes the mutable subscription fields
func (r *subscriptionRepository) Update(ctx context.Context, subscription *entity.Subscription) error {
	updates := map[string]interface{}{
		"status":             string(subscription.Status),
		"current_period_end": subscription.CurrentPeriodEnd,
		"cancelled_at":       subscription.CancelledAt,
	}

	result := conn(ctx, r.db).
		Model(&model.Subscription{}).
		Where("id = ?", subscription.ID).
		Updates(updates)
	if result.Error != nil {
		r.logger.Error("Failed to update subscription",
			zap.String("subscription_id", subscription.ID.String()),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("subscription not found: %s", subscription.ID)
	}

	return nil
}

// CountActiveByUser counts the user's active subscriptions
func (r *subscriptionRepository) CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64

	err := conn(ctx, r.db).
		Model(&model.Subscription{}).
		Where("user_id = ? AND status = ?", userID, string(entity.SubscriptionStatusActive)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	return count, nil
}

// ListLapsed returns active subscriptions whose period ended before now,
// oldest first
func (r *subscriptionRepository) ListLapsed(ctx context.Context, now time.Time, limit int) ([]*entity.Subscription, error) {
	var rows []model.Subscription

	query := conn(ctx, r.db).
		Where("status = ? AND current_period_end < ?", string(entity.SubscriptionStatusActive), now).
		Order("current_period_end ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&rows).Error; err != nil {
		r.logger.Error("Failed to list lapsed subscriptions", zap.Error(err))
		return nil, fmt.Errorf("failed to list lapsed subscriptions: %w", err)
	}

	subs := make([]*entity.Subscription, 0, len(rows))
	for i := range rows {
		subs = append(subs, subscriptionToEntity(&rows[i]))
	}

	return subs, nil
}

// MarkExpired moves an active subscription to expired. The status guard makes
// concurrent sweeps harmless.
func (r *subscriptionRepository) MarkExpired(ctx context.Context, id uuid.UUID) (bool, error) {
	result := conn(ctx, r.db).
		Model(&model.Subscription{}).
		Where("id = ? AND status = ?", id, string(entity.SubscriptionStatusActive)).
		Update("status", string(entity.SubscriptionStatusExpired))
	if result.Error != nil {
		r.logger.Error("Failed to expire subscription",
			zap.String("subscription_id", id.String()),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to expire subscription: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func subscriptionToModel(s *entity.Subscription) *model.Subscription {
	return &model.Subscription{
		ID:                 s.ID,
		UserID:             s.UserID,
		PlanID:             s.PlanID,
		Status:             string(s.Status),
		PaymentProvider:    s.Provider,
		CurrentPeriodStart: s.CurrentPeriodStart,
		CurrentPeriodEnd:   s.CurrentPeriodEnd,
		CancelledAt:        s.CancelledAt,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func subscriptionToEntity(m *model.Subscription) *entity.Subscription {
	return &entity.Subscription{
		ID:                 m.ID,
		UserID:             m.UserID,
		PlanID:             m.PlanID,
		Status:             entity.SubscriptionStatus(m.Status),
		Provider:           m.PaymentProvider,
		CurrentPeriodStart: m.CurrentPeriodStart,
		CurrentPeriodEnd:   m.CurrentPeriodEnd,
		CancelledAt:        m.CancelledAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
