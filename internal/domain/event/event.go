// Package event defines the subscription lifecycle events this service
// announces to other services.
package event

import (
	"context"
	"time"
)

type Type string

const (
	SubscriptionActivated Type = "subscription.activated"
	SubscriptionCancelled Type = "subscription.cancelled"
	SubscriptionExpired   Type = "subscription.expired"
)

// SubscriptionEvent is published after the owning transaction commits.
type SubscriptionEvent struct {
	Type           Type      `json:"type"`
	UserID         string    `json:"user_id"`
	SubscriptionID string    `json:"subscription_id"`
	PlanID         string    `json:"plan_id"`
	Tier           string    `json:"tier"`
	Immediate      bool      `json:"immediate,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Publisher delivers events. Delivery is best effort: callers log failures
// and carry on.
type Publisher interface {
	Publish(ctx context.Context, evt SubscriptionEvent) error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, SubscriptionEvent) error {
	return nil
}
