package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"collection-route-service/internal/instance"
)

// SQLite backed cache for whole travel matrices, keyed by the exact
// ordered node-id list the matrix was fetched for.
type SqliteMatrixCache struct {
	DB *sql.DB
}

func NewSqliteMatrixCache(db *sql.DB) *SqliteMatrixCache {
	return &SqliteMatrixCache{DB: db}
}

// Get returns the cached matrix for the node order, or (nil, nil) when
// no entry (or an entry for a different node order) exists.
func (s *SqliteMatrixCache) Get(ctx context.Context, nodeOrder []string) (*instance.TravelMatrix, error) {
	if s.DB == nil {
		return nil, errors.New("matrix cache: db is nil")
	}
	if len(nodeOrder) == 0 {
		return nil, errors.New("get matrix cache: node order must not be empty")
	}

	q := `
	SELECT payload
	FROM matrix_cache
	WHERE node_set = ?;
	`

	var data []byte
	err := s.DB.QueryRowContext(ctx, q, nodeSetKey(nodeOrder)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get matrix cache: query matrix_cache table: %w", err)
	}

	m, err := decodeMatrix(data, nodeOrder)
	if err != nil {
		return nil, fmt.Errorf("get matrix cache: %w", err)
	}
	return m, nil
}

// Put stores the matrix under its node order, replacing any previous
// entry for the same node set.
func (s *SqliteMatrixCache) Put(ctx context.Context, nodeOrder []string, m *instance.TravelMatrix) error {
	if s.DB == nil {
		return errors.New("matrix cache: db is nil")
	}
	if len(nodeOrder) == 0 || m == nil {
		return errors.New("insert matrix cache: node order and matrix must be non-empty")
	}

	data, err := encodeMatrix(nodeOrder, m)
	if err != nil {
		return fmt.Errorf("insert matrix cache: %w", err)
	}

	q := `
	INSERT OR REPLACE INTO matrix_cache (node_set, payload)
	VALUES (?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, q, nodeSetKey(nodeOrder), data); err != nil {
		return fmt.Errorf("insert matrix cache: %w", err)
	}

	return nil
}
