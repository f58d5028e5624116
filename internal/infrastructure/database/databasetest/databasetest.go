// Package databasetest opens a migrated in-memory database for tests.
package databasetest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/kenang-app/kenang-billing/internal/config"
	"github.com/kenang-app/kenang-billing/internal/infrastructure/database"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// New returns a fresh migrated database. A single connection keeps the
// in-memory database alive and serializes transactions.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	log := zap.NewNop()
	db, err := database.Open(sqlite.Open(":memory:"), &config.DatabaseConfig{
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, log)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, log))

	t.Cleanup(func() {
		_ = database.Close(db, log)
	})

	return db
}
