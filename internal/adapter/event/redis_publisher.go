package event

import (
	"context"
	"fmt"

	"github.com/kenang-app/kenang-billing/internal/domain/event"
	"github.com/kenang-app/kenang-billing/pkg/messaging"
	"go.uber.org/zap"
)

type redisPublisher struct {
	client  messaging.RedisClient
	channel string
	logger  *zap.Logger
}

// NewRedisPublisher publishes subscription events as JSON on channel
func NewRedisPublisher(client messaging.RedisClient, channel string, logger *zap.Logger) event.Publisher {
	return &redisPublisher{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (p *redisPublisher) Publish(ctx context.Context, evt event.SubscriptionEvent) error {
	if err := p.client.Publish(ctx, p.channel, evt); err != nil {
		return fmt.Errorf("failed to publish %s: %w", evt.Type, err)
	}

	p.logger.Debug("Published subscription event",
		zap.String("type", string(evt.Type)),
		zap.String("subscription_id", evt.SubscriptionID),
		zap.String("user_id", evt.UserID))
	return nil
}
