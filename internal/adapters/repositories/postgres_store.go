package repositories

import (
	"context"
	"courier-delivery-service/internal/domain"
	"courier-delivery-service/internal/platform/obs"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PostgresStore implements every persistence port on top of database/sql
// with the pgx driver.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const deliveryColumns = `
	d.id,
	d.courier_id,
	d.vehicle_id,
	COALESCE(d.created_by, 0),
	to_char(d.delivery_date, 'YYYY-MM-DD'),
	to_char(d.time_start, 'HH24:MI'),
	to_char(d.time_end, 'HH24:MI'),
	d.status,
	d.created_at,
	d.updated_at
`

func (s *PostgresStore) ProductByID(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := s.DB.QueryRowContext(ctx, `
	SELECT id, name, weight::text, length::text, width::text, height::text
	FROM products
	WHERE id = $1;
	`, id).Scan(&p.ID, &p.Name, &p.Weight, &p.Length, &p.Width, &p.Height)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.NotFound("product", id)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (s *PostgresStore) VehicleByID(ctx context.Context, id int64) (domain.Vehicle, error) {
	var v domain.Vehicle
	err := s.DB.QueryRowContext(ctx, `
	SELECT id, brand, license_plate, max_weight::text, max_volume::text
	FROM vehicles
	WHERE id = $1;
	`, id).Scan(&v.ID, &v.Brand, &v.LicensePlate, &v.MaxWeight, &v.MaxVolume)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Vehicle{}, domain.NotFound("vehicle", id)
	}
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("get vehicle %d: %w", id, err)
	}
	return v, nil
}

func (s *PostgresStore) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, brand, license_plate, max_weight::text, max_volume::text
	FROM vehicles
	ORDER BY id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: query vehicles table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]domain.Vehicle, 0, 16)
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.Brand, &v.LicensePlate, &v.MaxWeight, &v.MaxVolume); err != nil {
			return nil, fmt.Errorf("list vehicles: scan row: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: row iteration: %w", err)
	}
	return vehicles, nil
}

func (s *PostgresStore) UserByID(ctx context.Context, id int64) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := s.DB.QueryRowContext(ctx, `
	SELECT id, login, full_name, role
	FROM users
	WHERE id = $1;
	`, id).Scan(&u.ID, &u.Login, &u.FullName, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.NotFound("user", id)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	u.Role = domain.Role(role)
	return u, nil
}

func (s *PostgresStore) UsersByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, login, full_name, role
	FROM users
	WHERE role = $1
	ORDER BY id;
	`, string(role))
	if err != nil {
		return nil, fmt.Errorf("list users by role %s: %w", role, err)
	}
	defer rows.Close()

	users := make([]domain.User, 0, 16)
	for rows.Next() {
		var (
			u domain.User
			r string
		)
		if err := rows.Scan(&u.ID, &u.Login, &u.FullName, &r); err != nil {
			return nil, fmt.Errorf("list users by role: scan row: %w", err)
		}
		u.Role = domain.Role(r)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users by role: row iteration: %w", err)
	}
	return users, nil
}

func (s *PostgresStore) OverlappingDeliveries(
	ctx context.Context,
	vehicleID int64,
	date domain.Date,
	window domain.TimeWindow,
	excludeStatuses []domain.Status,
	excludeID int64,
) (_ []domain.Delivery, err error) {
	defer obs.Time(ctx, "store.OverlappingDeliveries")(&err)

	statuses := statusStrings(excludeStatuses)

	q := `
	SELECT ` + deliveryColumns + `
	FROM deliveries d
	WHERE d.vehicle_id = $1
		AND d.delivery_date = $2::date
		AND NOT (d.status = ANY($3::text[]))
		AND d.id <> $4
		AND (
			(d.time_start <= $5::time AND d.time_end > $5::time)
			OR (d.time_start < $6::time AND d.time_end >= $6::time)
			OR (d.time_start >= $5::time AND d.time_end <= $6::time)
		)
	ORDER BY d.id;
	`

	ds, err := s.queryDeliveries(ctx, s.DB, q,
		vehicleID, date.String(), statuses, excludeID, window.Start.String(), window.End.String())
	if err != nil {
		return nil, fmt.Errorf("overlapping deliveries: %w", err)
	}
	return ds, nil
}

func (s *PostgresStore) GetDelivery(ctx context.Context, id int64) (domain.Delivery, error) {
	ds, err := s.queryDeliveries(ctx, s.DB, `SELECT `+deliveryColumns+` FROM deliveries d WHERE d.id = $1;`, id)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("get delivery %d: %w", id, err)
	}
	if len(ds) == 0 {
		return domain.Delivery{}, domain.NotFound("delivery", id)
	}
	return ds[0], nil
}

func (s *PostgresStore) ListDeliveries(ctx context.Context, filter domain.DeliveryFilter) ([]domain.Delivery, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Date != nil {
		args = append(args, filter.Date.String())
		conds = append(conds, fmt.Sprintf("d.delivery_date = $%d::date", len(args)))
	}
	if filter.From != nil {
		args = append(args, filter.From.String())
		conds = append(conds, fmt.Sprintf("d.delivery_date >= $%d::date", len(args)))
	}
	if filter.To != nil {
		args = append(args, filter.To.String())
		conds = append(conds, fmt.Sprintf("d.delivery_date <= $%d::date", len(args)))
	}
	if filter.CourierID != 0 {
		args = append(args, filter.CourierID)
		conds = append(conds, fmt.Sprintf("d.courier_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("d.status = $%d", len(args)))
	}

	q := `SELECT ` + deliveryColumns + ` FROM deliveries d`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY d.delivery_date, d.time_start, d.id;"

	ds, err := s.queryDeliveries(ctx, s.DB, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	return ds, nil
}

// CreateDelivery inserts the delivery with its stops and line items in one transaction.
func (s *PostgresStore) CreateDelivery(ctx context.Context, d domain.Delivery) (_ domain.Delivery, err error) {
	defer obs.Time(ctx, "store.CreateDelivery")(&err)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("create delivery: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
	INSERT INTO deliveries (courier_id, vehicle_id, created_by, delivery_date, time_start, time_end, status)
	VALUES ($1, $2, $3, $4::date, $5::time, $6::time, $7)
	RETURNING id, created_at, updated_at;
	`,
		d.CourierID, d.VehicleID, nullableID(d.CreatedBy), d.Date.String(),
		d.Window.Start.String(), d.Window.End.String(), string(d.Status),
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("create delivery: insert: %w", err)
	}

	if err := insertStops(ctx, tx, d.ID, d.Stops); err != nil {
		return domain.Delivery{}, fmt.Errorf("create delivery: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Delivery{}, fmt.Errorf("create delivery: commit tx: %w", err)
	}
	return d, nil
}

// UpdateDelivery rewrites the delivery's assignment and schedule and replaces
// all of its stops atomically.
func (s *PostgresStore) UpdateDelivery(ctx context.Context, d domain.Delivery) (_ domain.Delivery, err error) {
	defer obs.Time(ctx, "store.UpdateDelivery")(&err)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("update delivery: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Status is owned by UpdateStatus and never rewritten here.
	var status string
	err = tx.QueryRowContext(ctx, `
	UPDATE deliveries
	SET courier_id = $2,
		vehicle_id = $3,
		delivery_date = $4::date,
		time_start = $5::time,
		time_end = $6::time,
		updated_at = now()
	WHERE id = $1
	RETURNING status, updated_at;
	`,
		d.ID, d.CourierID, d.VehicleID, d.Date.String(),
		d.Window.Start.String(), d.Window.End.String(),
	).Scan(&status, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Delivery{}, domain.NotFound("delivery", d.ID)
	}
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("update delivery %d: %w", d.ID, err)
	}
	d.Status = domain.Status(status)

	if _, err := tx.ExecContext(ctx, `DELETE FROM delivery_points WHERE delivery_id = $1;`, d.ID); err != nil {
		return domain.Delivery{}, fmt.Errorf("update delivery %d: delete stops: %w", d.ID, err)
	}

	if err := insertStops(ctx, tx, d.ID, d.Stops); err != nil {
		return domain.Delivery{}, fmt.Errorf("update delivery %d: %w", d.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Delivery{}, fmt.Errorf("update delivery %d: commit tx: %w", d.ID, err)
	}
	return d, nil
}

func (s *PostgresStore) DeleteDelivery(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM deliveries WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete delivery %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFound("delivery", id)
	}
	return nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	res, err := s.DB.ExecContext(ctx, `
	UPDATE deliveries SET status = $2, updated_at = now() WHERE id = $1;
	`, id, string(status))
	if err != nil {
		return fmt.Errorf("update status of delivery %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFound("delivery", id)
	}
	return nil
}

func (s *PostgresStore) queryDeliveries(ctx context.Context, q querier, query string, args ...any) ([]domain.Delivery, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query deliveries table: %w", err)
	}
	defer rows.Close()

	deliveries := make([]domain.Delivery, 0, 16)
	ids := make([]int64, 0, 16)
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
		ids = append(ids, d.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("deliveries row iteration: %w", err)
	}
	rows.Close()

	if len(ids) == 0 {
		return deliveries, nil
	}

	stops, err := loadStops(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for i := range deliveries {
		deliveries[i].Stops = stops[deliveries[i].ID]
	}
	return deliveries, nil
}

func scanDelivery(rows *sql.Rows) (domain.Delivery, error) {
	var (
		d                  domain.Delivery
		date, start, end   string
		status             string
		createdAt, updated time.Time
	)
	if err := rows.Scan(&d.ID, &d.CourierID, &d.VehicleID, &d.CreatedBy,
		&date, &start, &end, &status, &createdAt, &updated); err != nil {
		return domain.Delivery{}, fmt.Errorf("scan delivery row: %w", err)
	}

	var err error
	if d.Date, err = domain.ParseDate(date); err != nil {
		return domain.Delivery{}, fmt.Errorf("delivery %d: %w", d.ID, err)
	}
	if d.Window.Start, err = domain.ParseTimeOfDay(start); err != nil {
		return domain.Delivery{}, fmt.Errorf("delivery %d: %w", d.ID, err)
	}
	if d.Window.End, err = domain.ParseTimeOfDay(end); err != nil {
		return domain.Delivery{}, fmt.Errorf("delivery %d: %w", d.ID, err)
	}
	d.Status = domain.Status(status)
	d.CreatedAt = createdAt
	d.UpdatedAt = updated
	return d, nil
}

// loadStops fetches stops and line items for many deliveries with two queries.
func loadStops(ctx context.Context, q querier, deliveryIDs []int64) (map[int64][]domain.Stop, error) {
	pointRows, err := q.QueryContext(ctx, `
	SELECT id, delivery_id, sequence, latitude::text, longitude::text
	FROM delivery_points
	WHERE delivery_id = ANY($1::bigint[])
	ORDER BY delivery_id, sequence;
	`, deliveryIDs)
	if err != nil {
		return nil, fmt.Errorf("load stops: query delivery_points table: %w", err)
	}
	defer pointRows.Close()

	type pointRef struct {
		deliveryID int64
		index      int
	}
	byPoint := make(map[int64]pointRef)
	out := make(map[int64][]domain.Stop, len(deliveryIDs))

	for pointRows.Next() {
		var (
			pointID, deliveryID int64
			st                  domain.Stop
			lat, lon            decimal.Decimal
		)
		if err := pointRows.Scan(&pointID, &deliveryID, &st.Sequence, &lat, &lon); err != nil {
			return nil, fmt.Errorf("load stops: scan point: %w", err)
		}
		st.Location = domain.Coordinates{Lat: lat, Lon: lon}
		st.Items = []domain.LineItem{}
		out[deliveryID] = append(out[deliveryID], st)
		byPoint[pointID] = pointRef{deliveryID: deliveryID, index: len(out[deliveryID]) - 1}
	}
	if err := pointRows.Err(); err != nil {
		return nil, fmt.Errorf("load stops: point iteration: %w", err)
	}
	pointRows.Close()

	itemRows, err := q.QueryContext(ctx, `
	SELECT dpp.delivery_point_id, dpp.product_id, dpp.quantity
	FROM delivery_point_products dpp
	JOIN delivery_points p ON p.id = dpp.delivery_point_id
	WHERE p.delivery_id = ANY($1::bigint[])
	ORDER BY dpp.id;
	`, deliveryIDs)
	if err != nil {
		return nil, fmt.Errorf("load stops: query delivery_point_products table: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			pointID int64
			item    domain.LineItem
		)
		if err := itemRows.Scan(&pointID, &item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("load stops: scan item: %w", err)
		}
		ref, ok := byPoint[pointID]
		if !ok {
			continue
		}
		stops := out[ref.deliveryID]
		stops[ref.index].Items = append(stops[ref.index].Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("load stops: item iteration: %w", err)
	}

	return out, nil
}

func insertStops(ctx context.Context, tx *sql.Tx, deliveryID int64, stops []domain.Stop) error {
	pointStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO delivery_points (delivery_id, sequence, latitude, longitude)
	VALUES ($1, $2, $3::numeric, $4::numeric)
	RETURNING id;
	`)
	if err != nil {
		return fmt.Errorf("insert stops: prepare points: %w", err)
	}
	defer pointStmt.Close()

	itemStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO delivery_point_products (delivery_point_id, product_id, quantity)
	VALUES ($1, $2, $3);
	`)
	if err != nil {
		return fmt.Errorf("insert stops: prepare items: %w", err)
	}
	defer itemStmt.Close()

	for _, st := range stops {
		var pointID int64
		err := pointStmt.QueryRowContext(ctx, deliveryID, st.Sequence,
			st.Location.Lat.String(), st.Location.Lon.String()).Scan(&pointID)
		if err != nil {
			return fmt.Errorf("insert stop sequence=%d: %w", st.Sequence, err)
		}
		for _, item := range st.Items {
			if _, err := itemStmt.ExecContext(ctx, pointID, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("insert stop sequence=%d product=%d: %w", st.Sequence, item.ProductID, err)
			}
		}
	}
	return nil
}

func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}
