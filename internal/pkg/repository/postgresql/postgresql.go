package postgresql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	"go.uber.org/zap"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	Debug        bool
}

// sqliteDriver is go-sqlite3 with lower() folding full Unicode, matching
// Postgres and the patterns built in Go.
const sqliteDriver = "sqlite3_unicode"

func init() {
	sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
}

// Database is the store handle shared by every repository. It is built once
// at startup and handed to the repositories that need it.
type Database struct {
	*bun.DB
	log *zap.Logger
}

// New opens the database and checks that it answers. A store that cannot be
// reached is a startup error.
func New(ctx context.Context, cfg Config, log *zap.Logger) (*Database, error) {
	var db *bun.DB

	switch cfg.Driver {
	case DriverSQLite:
		sqldb, err := sql.Open(sqliteDriver, cfg.DSN)
		if err != nil {
			return nil, errors.Wrap(err, "opening sqlite")
		}
		// Every connection to ":memory:" is a separate database.
		if strings.Contains(cfg.DSN, ":memory:") {
			sqldb.SetMaxOpenConns(1)
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case DriverPostgres, "":
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
		if cfg.MaxOpenConns > 0 {
			sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
			sqldb.SetMaxIdleConns(cfg.MaxOpenConns)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		return nil, errors.Errorf("unsupported driver %q", cfg.Driver)
	}

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "connecting to database")
	}

	log.Info("database connected", zap.String("driver", db.Dialect().Name().String()))

	return &Database{DB: db, log: log}, nil
}

// Ping reports whether the store still answers.
func (d Database) Ping(ctx context.Context) error {
	return d.PingContext(ctx)
}

// DeleteRow removes the row with the given id from table and reports whether
// a row existed.
func (d Database) DeleteRow(ctx context.Context, table string, id int64) (bool, error) {
	res, err := d.NewDelete().TableExpr(table).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return false, errors.Wrapf(err, "deleting from %s", table)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrapf(err, "deleting from %s", table)
	}

	return n > 0, nil
}
