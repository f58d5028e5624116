package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/kenang-app/kenang-billing/internal/domain/plan"
)

type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusPastDue   SubscriptionStatus = "past_due"
)

// Subscription grants a plan's tier for one period.
type Subscription struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	PlanID             string
	Status             SubscriptionStatus
	Provider           string
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CancelledAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

// CancelAtPeriodEnd reports a deferred cancellation still waiting for the
// sweeper.
func (s *Subscription) CancelAtPeriodEnd() bool {
	return s.IsActive() && s.CancelledAt != nil
}

// CurrentSubscription is an active subscription together with its plan.
type CurrentSubscription struct {
	Subscription *Subscription
	Plan         plan.Plan
}
