package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"collection-route-service/internal/instance"
	"collection-route-service/internal/platform/obs"
)

// Postgres twin of SqliteMatrixCache. Placeholders and upsert syntax
// differ, the payload contract is identical.
type SQLMatrixCache struct {
	DB *sql.DB
}

func NewSQLMatrixCache(db *sql.DB) *SQLMatrixCache {
	return &SQLMatrixCache{DB: db}
}

func (s *SQLMatrixCache) Get(ctx context.Context, nodeOrder []string) (_ *instance.TravelMatrix, err error) {
	defer obs.Time(ctx, "matrix_cache.get")(&err)

	if s.DB == nil {
		return nil, errors.New("matrix cache: db is nil")
	}
	if len(nodeOrder) == 0 {
		return nil, errors.New("get matrix cache: node order must not be empty")
	}

	q := `
	SELECT payload
	FROM matrix_cache
	WHERE node_set = $1;
	`

	var data []byte
	err = s.DB.QueryRowContext(ctx, q, nodeSetKey(nodeOrder)).Scan(&data)
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

func (s *SQLMatrixCache) Put(ctx context.Context, nodeOrder []string, m *instance.TravelMatrix) (err error) {
	defer obs.Time(ctx, "matrix_cache.put")(&err)

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
	INSERT INTO matrix_cache (node_set, payload)
	VALUES ($1, $2)
	ON CONFLICT (node_set) DO UPDATE SET payload = EXCLUDED.payload;
	`
	if _, err := s.DB.ExecContext(ctx, q, nodeSetKey(nodeOrder), data); err != nil {
		return fmt.Errorf("insert matrix cache: %w", err)
	}

	return nil
}
