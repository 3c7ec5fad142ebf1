package commands_test

import (
	"context"
	"testing"

	"employee/backend/internal/commands"
	"employee/backend/internal/pkg/repository/postgresql/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrateUP_Idempotent(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	// A second run finds everything applied.
	require.NoError(t, commands.MigrateUP(ctx, db, zap.NewNop()))

	var (
		version int
		dirty   bool
	)
	require.NoError(t, db.QueryRowContext(ctx, "SELECT version, dirty FROM schema_migrations").Scan(&version, &dirty))
	assert.Equal(t, 3, version)
	assert.False(t, dirty)

	var rows int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT count(*) FROM schema_migrations").Scan(&rows))
	assert.Equal(t, 1, rows)

	for _, table := range []string{"users", "employees"} {
		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT count(*) FROM "+table).Scan(&n), table)
		assert.Zero(t, n, table)
	}
}

func TestMigrateUP_RetriesDirtyVersion(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, "DROP INDEX employees_department_position_idx")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "UPDATE schema_migrations SET version = 3, dirty = true, error = 'boom'")
	require.NoError(t, err)

	require.NoError(t, commands.MigrateUP(ctx, db, zap.NewNop()))

	var n int
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT count(*) FROM sqlite_master WHERE type = 'index' AND name = 'employees_department_position_idx'").Scan(&n))
	assert.Equal(t, 1, n)
}
