package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription represents a user's subscription
type Subscription struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID  `gorm:"type:uuid;not null;index:idx_subscriptions_user_status,priority:1" json:"user_id"`
	PlanID             string     `gorm:"size:50;not null" json:"plan_id"`
	Status             string     `gorm:"size:20;not null;index:idx_subscriptions_user_status,priority:2" json:"status"`
	PaymentProvider    string     `gorm:"size:50" json:"payment_provider"`
	CurrentPeriodStart time.Time  `gorm:"not null" json:"current_period_start"`
	CurrentPeriodEnd   time.Time  `gorm:"not null" json:"current_period_end"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// BeforeCreate assigns a UUID when the caller did not
func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for GORM
func (Subscription) TableName() string {
	return "subscriptions"
}
