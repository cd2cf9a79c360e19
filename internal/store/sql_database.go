package store

import (
	"context"
	"database/sql"

	"github.com/paullj1/workout-tracker/internal/config"
	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/migrations"
)

// DB wraps the raw SQL connection together with the driver dialect and a
// retry classifier for driver errors.
type DB struct {
	*sql.DB
	dialect            string
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewConnect opens the database selected by the DSN: "postgres://" DSNs go
// through the pgx driver, everything else is treated as a SQLite file path.
func NewConnect(ctx context.Context, cfg config.Storage, log *logger.Logger) (*DB, error) {
	if cfg.DB.IsPostgres() {
		return NewConnectPostgres(ctx, cfg.DB, log)
	}
	return NewConnectSQLite(ctx, cfg.DB, log)
}

// Migrate applies all pending schema migrations for the connected dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// isRetryable reports whether err is a transient driver failure worth one
// more attempt. Without a classifier (SQLite) nothing is retried.
func (db *DB) isRetryable(err error) bool {
	if db.errorClassificator == nil {
		return false
	}
	return db.errorClassificator.Classify(err) == Retryable
}
