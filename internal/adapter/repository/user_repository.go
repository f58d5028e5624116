package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kenang-app/kenang-billing/internal/domain/entity"
	"github.com/kenang-app/kenang-billing/internal/domain/model"
	"github.com/kenang-app/kenang-billing/internal/domain/plan"
	"github.com/kenang-app/kenang-billing/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type userRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewUserRepository creates a repository over the shared users table
func NewUserRepository(db *gorm.DB, logger *zap.Logger) repository.UserRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.get(ctx, conn(ctx, r.db), id)
}

// GetByIDForUpdate retrieves a user by ID and locks the row
func (r *userRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.get(ctx, forUpdate(conn(ctx, r.db)), id)
}

func (r *userRepository) get(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	var m model.User

	err := db.Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get user",
			zap.String("user_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return userToEntity(&m), nil
}

// UpdateTier sets the user's tier and subscription expiry
func (r *userRepository) UpdateTier(ctx context.Context, id uuid.UUID, tier plan.Tier, expiresAt *time.Time) error {
	result := conn(ctx, r.db).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"subscription_tier":       string(tier),
			"subscription_expires_at": expiresAt,
		})
	if result.Error != nil {
		r.logger.Error("Failed to update user tier",
			zap.String("user_id", id.String()),
			zap.String("tier", string(tier)),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update user tier: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user not found: %s", id)
	}

	return nil
}

func userToEntity(m *model.User) *entity.User {
	return &entity.User{
		ID:                    m.ID,
		Email:                 m.Email,
		FullName:              m.FullName,
		PhoneNumber:           m.PhoneNumber,
		Tier:                  plan.Tier(m.SubscriptionTier),
		SubscriptionExpiresAt: m.SubscriptionExpiresAt,
	}
}
