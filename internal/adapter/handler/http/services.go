package http

import (
	"context"

	"github.com/google/uuid"
	"github.com/kenang-app/kenang-billing/internal/domain/entity"
	"github.com/kenang-app/kenang-billing/internal/domain/plan"
)

// CheckoutService opens gateway checkout sessions.
type CheckoutService interface {
	CreateCheckout(ctx context.Context, req entity.CheckoutRequest) (*entity.CheckoutResult, error)
}

// SubscriptionService is the subscription lifecycle as seen by the API.
type SubscriptionService interface {
	ListPlans(includeFree bool) []plan.Plan
	GetCurrentSubscription(ctx context.Context, userID uuid.UUID) (*entity.CurrentSubscription, error)
	CancelSubscription(ctx context.Context, subscriptionID, userID uuid.UUID, immediate bool) (*entity.Subscription, error)
	CancelCurrentSubscription(ctx context.Context, userID uuid.UUID, immediate bool) (*entity.Subscription, error)
	GetPaymentHistory(ctx context.Context, userID uuid.UUID, params entity.PageParams) (*entity.PaymentHistory, error)
	CheckFeatureAccess(ctx context.Context, userID uuid.UUID, feature string) (*entity.FeatureAccess, error)
}

// NotificationProcessor applies gateway payment notifications.
type NotificationProcessor interface {
	HandleNotification(ctx context.Context, body []byte) (*entity.WebhookResult, error)
}
