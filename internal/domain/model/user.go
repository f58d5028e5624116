package model

import (
	"time"

	"github.com/google/uuid"
)

// User maps the columns of the shared users table that billing touches.
// The table itself is owned by the user service.
type User struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email                 string     `gorm:"size:255" json:"email"`
	FullName              string     `gorm:"size:255" json:"full_name"`
	PhoneNumber           string     `gorm:"size:20" json:"phone_number"`
	SubscriptionTier      string     `gorm:"size:20;not null;default:'free'" json:"subscription_tier"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
