package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kenang-app/kenang-billing/internal/domain/entity"
)

// SubscriptionRepository persists subscriptions. Subscriptions are never
// deleted.
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Subscription, error)
	GetActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.Subscription, error)
	Update(ctx context.Context, subscription *entity.Subscription) error
	CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// ListLapsed returns active subscriptions whose period ended before now.
	ListLapsed(ctx context.Context, now time.Time, limit int) ([]*entity.Subscription, error)
	// MarkExpired moves an active subscription to expired. It reports false
	// when the row was no longer active.
	MarkExpired(ctx context.Context, id uuid.UUID) (bool, error)
}
