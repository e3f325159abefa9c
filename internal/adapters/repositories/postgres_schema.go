package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the Postgres tables used by PostgresStore and the SQL distance cache.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createUsersQuery := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		login TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL CHECK (role IN ('ADMIN', 'MANAGER', 'COURIER'))
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		id BIGSERIAL PRIMARY KEY,
		brand TEXT NOT NULL DEFAULT '',
		license_plate TEXT NOT NULL UNIQUE,
		max_weight NUMERIC(8,2) NOT NULL CHECK (max_weight > 0),
		max_volume NUMERIC(8,3) NOT NULL CHECK (max_volume > 0)
	);
	`

	createProductsQuery := `
	CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		weight NUMERIC(8,3) NOT NULL CHECK (weight > 0),
		length NUMERIC(6,2) NOT NULL CHECK (length > 0),
		width NUMERIC(6,2) NOT NULL CHECK (width > 0),
		height NUMERIC(6,2) NOT NULL CHECK (height > 0)
	);
	`

	createDeliveriesQuery := `
	CREATE TABLE IF NOT EXISTS deliveries (
		id BIGSERIAL PRIMARY KEY,
		courier_id BIGINT NOT NULL REFERENCES users(id),
		vehicle_id BIGINT NOT NULL REFERENCES vehicles(id),
		created_by BIGINT REFERENCES users(id),
		delivery_date DATE NOT NULL,
		time_start TIME NOT NULL,
		time_end TIME NOT NULL,
		status TEXT NOT NULL DEFAULT 'PLANNED',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (time_start < time_end)
	);
	`

	createPointsQuery := `
	CREATE TABLE IF NOT EXISTS delivery_points (
		id BIGSERIAL PRIMARY KEY,
		delivery_id BIGINT NOT NULL REFERENCES deliveries(id) ON DELETE CASCADE,
		sequence INTEGER NOT NULL CHECK (sequence >= 1),
		latitude NUMERIC(10,8) NOT NULL,
		longitude NUMERIC(11,8) NOT NULL,
		UNIQUE (delivery_id, sequence)
	);
	`

	createPointProductsQuery := `
	CREATE TABLE IF NOT EXISTS delivery_point_products (
		id BIGSERIAL PRIMARY KEY,
		delivery_point_id BIGINT NOT NULL REFERENCES delivery_points(id) ON DELETE CASCADE,
		product_id BIGINT NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL CHECK (quantity > 0)
	);
	`

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS distance_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_km NUMERIC(10,2) NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (origin, destination)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_deliveries_vehicle_date
	ON deliveries(vehicle_id, delivery_date);
	`

	statements := []string{
		createUsersQuery,
		createVehiclesQuery,
		createProductsQuery,
		createDeliveriesQuery,
		createPointsQuery,
		createPointProductsQuery,
		createDistanceCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
