package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// InitPostgresSchema creates the shared cache tables on Postgres. Run
// by cmd/dbtool against the DSN in DATABASE_URL.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
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
			lat     DOUBLE PRECISION NOT NULL,
			lon     DOUBLE PRECISION NOT NULL
		);
		`,
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init postgres schema: begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init postgres schema: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init postgres schema: commit: %w", err)
	}
	return nil
}
