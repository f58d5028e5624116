package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/kenang-app/kenang-billing/internal/domain/plan"
)

// User is the part of the user record this service reads and writes.
type User struct {
	ID                    uuid.UUID
	Email                 string
	FullName              string
	PhoneNumber           string
	Tier                  plan.Tier
	SubscriptionExpiresAt *time.Time
}

// DisplayName falls back to a generic name for users without one.
func (u *User) DisplayName() string {
	if u.FullName == "" {
		return "Pengguna Kenang"
	}
	return u.FullName
}
