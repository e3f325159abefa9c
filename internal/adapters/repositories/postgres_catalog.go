package repositories

import (
	"context"
	"courier-delivery-service/internal/domain"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// conflictError turns unique and foreign key violations into domain.ErrConflict.
func conflictError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Message)
		}
	}
	return err
}

func statusStrings(statuses []domain.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, string(st))
	}
	return out
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, name, weight::text, length::text, width::text, height::text
	FROM products
	ORDER BY id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: query products table: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 16)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Weight, &p.Length, &p.Width, &p.Height); err != nil {
			return nil, fmt.Errorf("list products: scan row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: row iteration: %w", err)
	}
	return products, nil
}

func (s *PostgresStore) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	err := s.DB.QueryRowContext(ctx, `
	INSERT INTO products (name, weight, length, width, height)
	VALUES ($1, $2::numeric, $3::numeric, $4::numeric, $5::numeric)
	RETURNING id;
	`, p.Name, p.Weight.String(), p.Length.String(), p.Width.String(), p.Height.String()).Scan(&p.ID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", conflictError(err))
	}
	return p, nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	res, err := s.DB.ExecContext(ctx, `
	UPDATE products
	SET name = $2, weight = $3::numeric, length = $4::numeric, width = $5::numeric, height = $6::numeric
	WHERE id = $1;
	`, p.ID, p.Name, p.Weight.String(), p.Length.String(), p.Width.String(), p.Height.String())
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product %d: %w", p.ID, conflictError(err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.Product{}, domain.NotFound("product", p.ID)
	}
	return p, nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, conflictError(err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFound("product", id)
	}
	return nil
}

func (s *PostgresStore) ProductInUse(ctx context.Context, id int64, statuses []domain.Status) (bool, error) {
	var used bool
	err := s.DB.QueryRowContext(ctx, `
	SELECT EXISTS (
		SELECT 1
		FROM delivery_point_products dpp
		JOIN delivery_points p ON p.id = dpp.delivery_point_id
		JOIN deliveries d ON d.id = p.delivery_id
		WHERE dpp.product_id = $1 AND d.status = ANY($2::text[])
	);
	`, id, statusStrings(statuses)).Scan(&used)
	if err != nil {
		return false, fmt.Errorf("product %d usage: %w", id, err)
	}
	return used, nil
}

func (s *PostgresStore) CreateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	err := s.DB.QueryRowContext(ctx, `
	INSERT INTO vehicles (brand, license_plate, max_weight, max_volume)
	VALUES ($1, $2, $3::numeric, $4::numeric)
	RETURNING id;
	`, v.Brand, v.LicensePlate, v.MaxWeight.String(), v.MaxVolume.String()).Scan(&v.ID)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("create vehicle: %w", conflictError(err))
	}
	return v, nil
}

func (s *PostgresStore) UpdateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	err := s.DB.QueryRowContext(ctx, `
	UPDATE vehicles
	SET brand = $2, license_plate = $3, max_weight = $4::numeric, max_volume = $5::numeric
	WHERE id = $1
	RETURNING id;
	`, v.ID, v.Brand, v.LicensePlate, v.MaxWeight.String(), v.MaxVolume.String()).Scan(&v.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Vehicle{}, domain.NotFound("vehicle", v.ID)
	}
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("update vehicle %d: %w", v.ID, conflictError(err))
	}
	return v, nil
}

func (s *PostgresStore) DeleteVehicle(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle %d: %w", id, conflictError(err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFound("vehicle", id)
	}
	return nil
}

func (s *PostgresStore) VehicleInUse(ctx context.Context, id int64, statuses []domain.Status) (bool, error) {
	var used bool
	err := s.DB.QueryRowContext(ctx, `
	SELECT EXISTS (
		SELECT 1 FROM deliveries WHERE vehicle_id = $1 AND status = ANY($2::text[])
	);
	`, id, statusStrings(statuses)).Scan(&used)
	if err != nil {
		return false, fmt.Errorf("vehicle %d usage: %w", id, err)
	}
	return used, nil
}
