package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kenang-app/kenang-billing/internal/domain/entity"
	"github.com/kenang-app/kenang-billing/internal/domain/plan"
)

// UserRepository is the narrow view of the user directory this service
// needs.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// GetByIDForUpdate locks the user row for the surrounding transaction,
	// serializing tier changes for one user.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error)
	UpdateTier(ctx context.Context, id uuid.UUID, tier plan.Tier, expiresAt *time.Time) error
}
