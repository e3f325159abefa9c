package cache

import (
	"context"
	"courier-delivery-service/internal/domain"
	"courier-delivery-service/internal/platform/obs"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SQLDistanceCache is a SQL-backed cache for point-to-point distances.
// Entries older than TTL are treated as misses (TTL 0 keeps them forever).
type SQLDistanceCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLDistanceCache(db *sql.DB, ttl time.Duration) *SQLDistanceCache {
	return &SQLDistanceCache{DB: db, TTL: ttl}
}

func (s *SQLDistanceCache) Get(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
) (_ decimal.Decimal, _ bool, err error) {
	defer obs.Time(ctx, "distance.cache.sql.Get")(&err)

	if s.DB == nil {
		return decimal.Zero, false, errors.New("distance cache: db is nil")
	}

	q := `
	SELECT distance_km::text, updated_at
	FROM distance_cache
	WHERE origin = $1
		AND destination = $2;
	`

	var (
		kmText    string
		updatedAt time.Time
	)
	err = s.DB.QueryRowContext(ctx, q, from.Key(), to.Key()).Scan(&kmText, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("get distance cache: query distance_cache table: %w", err)
	}

	if s.TTL > 0 && time.Since(updatedAt) > s.TTL {
		return decimal.Zero, false, nil
	}

	km, err := decimal.NewFromString(kmText)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("get distance cache: parse %q: %w", kmText, err)
	}

	return km, true, nil
}

func (s *SQLDistanceCache) Put(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
	km decimal.Decimal,
) error {
	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO distance_cache (origin, destination, distance_km, updated_at)
	VALUES ($1, $2, $3::numeric, now())
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_km = EXCLUDED.distance_km,
		updated_at = EXCLUDED.updated_at;
	`, from.Key(), to.Key(), km.StringFixed(2))
	if err != nil {
		return fmt.Errorf("insert distance cache %s -> %s: %w", from.Key(), to.Key(), err)
	}

	return nil
}
