package usecase

import (
	"context"

	"github.com/kenang-app/kenang-billing/internal/domain/event"
	"go.uber.org/zap"
)

// publishAll delivers events after their transaction committed. Failures are
// logged only: the state change is already durable.
func publishAll(ctx context.Context, publisher event.Publisher, logger *zap.Logger, events []event.SubscriptionEvent) {
	for _, evt := range events {
		if err := publisher.Publish(ctx, evt); err != nil {
			logger.Warn("Failed to publish subscription event",
				zap.String("type", string(evt.Type)),
				zap.String("subscription_id", evt.SubscriptionID),
				zap.Error(err))
		}
	}
}
