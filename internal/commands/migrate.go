package commands

import (
	"context"
	"database/sql"

	"employee/backend/internal/entity"
	"employee/backend/internal/pkg/repository/postgresql"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Scheme struct {
	Index       int
	Description string
	Up          func(ctx context.Context, db *postgresql.Database) error
}

var scheme = []Scheme{
	{
		Index:       1,
		Description: "Create table: users.",
		Up: func(ctx context.Context, db *postgresql.Database) error {
			_, err := db.NewCreateTable().Model((*entity.User)(nil)).IfNotExists().Exec(ctx)
			return err
		},
	},
	{
		Index:       2,
		Description: "Create table: employees.",
		Up: func(ctx context.Context, db *postgresql.Database) error {
			_, err := db.NewCreateTable().Model((*entity.Employee)(nil)).IfNotExists().Exec(ctx)
			return err
		},
	},
	{
		Index:       3,
		Description: "Create index: employees(department, position).",
		Up: func(ctx context.Context, db *postgresql.Database) error {
			_, err := db.NewCreateIndex().
				Model((*entity.Employee)(nil)).
				Index("employees_department_position_idx").
				Column("department", "position").
				IfNotExists().
				Exec(ctx)
			return err
		},
	},
}

// MigrateUP applies every scheme entry newer than the recorded version. A
// failed step is recorded as dirty and retried on the next run.
func MigrateUP(ctx context.Context, db *postgresql.Database, log *zap.Logger) error {
	if _, err := db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (version int not null, dirty bool not null, error text)`); err != nil {
		return errors.Wrap(err, "creating schema_migrations")
	}

	var (
		version int
		dirty   bool
		er      sql.NullString
	)
	err := db.QueryRowContext(ctx, "SELECT version, dirty, error FROM schema_migrations").Scan(&version, &dirty, &er)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err = db.ExecContext(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (0, false)`); err != nil {
			return errors.Wrap(err, "initialising schema_migrations")
		}
	case err != nil:
		return errors.Wrap(err, "reading schema_migrations")
	}

	if dirty {
		log.Warn("retrying dirty migration", zap.Int("version", version), zap.String("error", er.String))
		// The dirty step is re-run below, so step back one version.
		version--
	}

	for _, s := range scheme {
		if s.Index <= version {
			continue
		}

		if err = s.Up(ctx, db); err != nil {
			if _, uerr := db.ExecContext(ctx,
				`UPDATE schema_migrations SET error = ?, version = ?, dirty = true`, err.Error(), s.Index); uerr != nil {
				return errors.Wrap(uerr, "recording migration error")
			}
			return errors.Wrapf(err, "migrate version %d", s.Index)
		}

		if _, err = db.ExecContext(ctx,
			`UPDATE schema_migrations SET version = ?, dirty = false, error = null`, s.Index); err != nil {
			return errors.Wrap(err, "recording migration version")
		}

		log.Info("migrated", zap.Int("version", s.Index), zap.String("description", s.Description))
	}

	return nil
}
