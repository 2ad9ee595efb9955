package sqldb

import (
	"context"
	"fmt"
)

var schemas = map[string][]string{
	DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS decisions (
			id          BIGSERIAL PRIMARY KEY,
			decision_id TEXT NOT NULL UNIQUE,
			player      SMALLINT NOT NULL,
			difficulty  TEXT NOT NULL,
			reason      TEXT NOT NULL,
			x           SMALLINT NOT NULL,
			y           SMALLINT NOT NULL,
			score       BIGINT NOT NULL,
			depth       INTEGER NOT NULL,
			nodes       BIGINT NOT NULL,
			duration_ms BIGINT NOT NULL,
			cached      BOOLEAN NOT NULL DEFAULT FALSE,
			board       TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_created_at ON decisions (created_at)`,
	},
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS decisions (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			decision_id TEXT NOT NULL UNIQUE,
			player      INTEGER NOT NULL,
			difficulty  TEXT NOT NULL,
			reason      TEXT NOT NULL,
			x           INTEGER NOT NULL,
			y           INTEGER NOT NULL,
			score       INTEGER NOT NULL,
			depth       INTEGER NOT NULL,
			nodes       INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			cached      BOOLEAN NOT NULL DEFAULT 0,
			board       TEXT NOT NULL,
			created_at  TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_created_at ON decisions (created_at)`,
	},
}

// RunMigrations creates the decision history schema for the pool's dialect.
// Every statement is idempotent.
func RunMigrations(ctx context.Context, db *DB) error {
	stmts, ok := schemas[db.Driver]
	if !ok {
		return fmt.Errorf("no schema for driver %q", db.Driver)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
