package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"collection-route-service/internal/domain"
)

// SqliteGeocodeCache memoizes geocoding results per normalized address
// so repeated backfill runs do not hammer the upstream service.
type SqliteGeocodeCache struct {
	DB *sql.DB
}

func NewSqliteGeocodeCache(db *sql.DB) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db}
}

// Get returns the cached coordinates for the address. The second return
// value reports whether an entry existed.
func (s *SqliteGeocodeCache) Get(ctx context.Context, address string) (domain.Coordinates, bool, error) {
	if s.DB == nil {
		return domain.Coordinates{}, false, errors.New("geocode cache: db is nil")
	}
	address = normalizeAddress(address)
	if address == "" {
		return domain.Coordinates{}, false, errors.New("get geocode cache: address must not be empty")
	}

	q := `
	SELECT lat, lon
	FROM geocode_cache
	WHERE address = ?;
	`

	var c domain.Coordinates
	err := s.DB.QueryRowContext(ctx, q, address).Scan(&c.Lat, &c.Lon)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	return c, true, nil
}

func (s *SqliteGeocodeCache) Put(ctx context.Context, address string, c domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}
	address = normalizeAddress(address)
	if address == "" {
		return errors.New("insert geocode cache: address must not be empty")
	}

	q := `
	INSERT OR REPLACE INTO geocode_cache (address, lat, lon)
	VALUES (?, ?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, q, address, c.Lat, c.Lon); err != nil {
		return fmt.Errorf("insert geocode cache: %w", err)
	}
	return nil
}

func normalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
