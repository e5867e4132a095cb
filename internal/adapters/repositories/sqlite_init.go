package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates the cache tables used by the SQLite adapters. It
// is idempotent and safe to run at every startup.
func InitSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`
		CREATE TABLE IF NOT EXISTS matrix_cache (
			node_set TEXT PRIMARY KEY,
			payload  TEXT NOT NULL
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS geocode_cache (
			address TEXT PRIMARY KEY,
			lat     REAL NOT NULL,
			lon     REAL NOT NULL
		);
		`,
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit: %w", err)
	}
	return nil
}
