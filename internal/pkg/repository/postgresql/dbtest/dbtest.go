// Package dbtest opens migrated in-memory databases for repository tests.
package dbtest

import (
	"context"
	"testing"

	"employee/backend/internal/commands"
	"employee/backend/internal/pkg/repository/postgresql"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// New returns an in-memory sqlite database with the full schema applied.
func New(t *testing.T) *postgresql.Database {
	t.Helper()

	ctx := context.Background()

	db, err := postgresql.New(ctx, postgresql.Config{
		Driver: postgresql.DriverSQLite,
		DSN:    ":memory:",
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, commands.MigrateUP(ctx, db, zap.NewNop()))

	return db
}
