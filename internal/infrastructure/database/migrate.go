package database

import (
	"github.com/kenang-app/kenang-billing/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if db.Dialector.Name() == "postgres" {
		logger.Info("Creating PostgreSQL extensions...")
		if err := createExtensions(db); err != nil {
			logger.Error("Failed to create extensions", zap.Error(err))
			return err
		}
	}

	// users is owned by the user service; migrating it only adds the
	// subscription columns when they are missing.
	err := db.AutoMigrate(
		&model.User{},
		&model.Subscription{},
		&model.Payment{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	logger.Info("Creating custom indexes...")
	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates custom indexes that GORM doesn't handle automatically
func createCustomIndexes(db *gorm.DB) error {
	// Serves the sweeper scan. Not unique: the activation transaction keeps a
	// single active row per user.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_subscriptions_active_period_end ON subscriptions (current_period_end) WHERE status = 'active'`).Error; err != nil {
		return err
	}

	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_payments_user_created ON payments (user_id, created_at DESC)`).Error; err != nil {
		return err
	}

	return nil
}

// createExtensions creates required PostgreSQL extensions
func createExtensions(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return err
	}
	return nil
}
