package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"collection-route-service/internal/domain"
	"collection-route-service/internal/platform/obs"
)

// Postgres twin of SqliteGeocodeCache, for deployments sharing one
// geocode cache across hosts.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

func (s *SQLGeocodeCache) Get(ctx context.Context, address string) (_ domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "geocode_cache.get")(&err)

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
	WHERE address = $1;
	`

	var c domain.Coordinates
	err = s.DB.QueryRowContext(ctx, q, address).Scan(&c.Lat, &c.Lon)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	return c, true, nil
}

func (s *SQLGeocodeCache) Put(ctx context.Context, address string, c domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode_cache.put")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}
	address = normalizeAddress(address)
	if address == "" {
		return errors.New("insert geocode cache: address must not be empty")
	}

	q := `
	INSERT INTO geocode_cache (address, lat, lon)
	VALUES ($1, $2, $3)
	ON CONFLICT (address) DO UPDATE SET lat = EXCLUDED.lat, lon = EXCLUDED.lon;
	`
	if _, err := s.DB.ExecContext(ctx, q, address, c.Lat, c.Lon); err != nil {
		return fmt.Errorf("insert geocode cache: %w", err)
	}
	return nil
}
