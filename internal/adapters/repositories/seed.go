package repositories

import (
	"context"
	"courier-delivery-service/internal/domain"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

type UserSeed struct {
	ID       int64  `json:"id"`
	Login    string `json:"login"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type VehicleSeed struct {
	ID           int64           `json:"id"`
	Brand        string          `json:"brand"`
	LicensePlate string          `json:"license_plate"`
	MaxWeight    decimal.Decimal `json:"max_weight"`
	MaxVolume    decimal.Decimal `json:"max_volume"`
}

type ProductSeed struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Weight decimal.Decimal `json:"weight"`
	Length decimal.Decimal `json:"length"`
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
}

// Seed is the reference data file: users, vehicles and products.
type Seed struct {
	Users    []UserSeed    `json:"users"`
	Vehicles []VehicleSeed `json:"vehicles"`
	Products []ProductSeed `json:"products"`
}

// Reference data validated and converted to domain values.
type ReferenceData struct {
	Users    []domain.User
	Vehicles []domain.Vehicle
	Products []domain.Product
}

// LoadSeed reads and validates a seed file.
func LoadSeed(jsonPath string) (ReferenceData, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return ReferenceData{}, fmt.Errorf("load seed: read %q: %w", jsonPath, err)
	}

	var data Seed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return ReferenceData{}, fmt.Errorf("load seed: parse json: %w", err)
	}

	return data.Validate()
}

func (s Seed) Validate() (ReferenceData, error) {
	var out ReferenceData

	for i, u := range s.Users {
		if u.ID <= 0 {
			return ReferenceData{}, fmt.Errorf("seed users: invalid id at index %d: %d", i+1, u.ID)
		}
		login := strings.TrimSpace(u.Login)
		if login == "" {
			return ReferenceData{}, fmt.Errorf("seed users: user %d: login cannot be empty", u.ID)
		}
		role, err := domain.ParseRole(u.Role)
		if err != nil {
			return ReferenceData{}, fmt.Errorf("seed users: user %d: %w", u.ID, err)
		}
		out.Users = append(out.Users, domain.User{ID: u.ID, Login: login, FullName: u.FullName, Role: role})
	}

	for i, v := range s.Vehicles {
		if v.ID <= 0 {
			return ReferenceData{}, fmt.Errorf("seed vehicles: invalid id at index %d: %d", i+1, v.ID)
		}
		vehicle := domain.Vehicle{
			ID:           v.ID,
			Brand:        v.Brand,
			LicensePlate: strings.TrimSpace(v.LicensePlate),
			MaxWeight:    v.MaxWeight,
			MaxVolume:    v.MaxVolume,
		}
		if !vehicle.HasCapacity() {
			return ReferenceData{}, fmt.Errorf("seed vehicles: vehicle %d: capacity must be positive", v.ID)
		}
		out.Vehicles = append(out.Vehicles, vehicle)
	}

	for i, p := range s.Products {
		if p.ID <= 0 {
			return ReferenceData{}, fmt.Errorf("seed products: invalid id at index %d: %d", i+1, p.ID)
		}
		product := domain.Product{
			ID:     p.ID,
			Name:   p.Name,
			Weight: p.Weight,
			Length: p.Length,
			Width:  p.Width,
			Height: p.Height,
		}
		if !product.Valid() {
			return ReferenceData{}, fmt.Errorf("seed products: product %d: weight and dimensions must be positive", p.ID)
		}
		out.Products = append(out.Products, product)
	}

	return out, nil
}

// SeedPostgres upserts reference data by id and advances the id sequences.
func SeedPostgres(ctx context.Context, db *sql.DB, data ReferenceData) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, u := range data.Users {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, login, full_name, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET login = EXCLUDED.login,
			full_name = EXCLUDED.full_name,
			role = EXCLUDED.role;
		`, u.ID, u.Login, u.FullName, string(u.Role)); err != nil {
			return fmt.Errorf("seed: insert user id=%d: %w", u.ID, err)
		}
	}

	for _, v := range data.Vehicles {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO vehicles (id, brand, license_plate, max_weight, max_volume)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric)
		ON CONFLICT (id) DO UPDATE
		SET brand = EXCLUDED.brand,
			license_plate = EXCLUDED.license_plate,
			max_weight = EXCLUDED.max_weight,
			max_volume = EXCLUDED.max_volume;
		`, v.ID, v.Brand, v.LicensePlate, v.MaxWeight.String(), v.MaxVolume.String()); err != nil {
			return fmt.Errorf("seed: insert vehicle id=%d: %w", v.ID, err)
		}
	}

	for _, p := range data.Products {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO products (id, name, weight, length, width, height)
		VALUES ($1, $2, $3::numeric, $4::numeric, $5::numeric, $6::numeric)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			weight = EXCLUDED.weight,
			length = EXCLUDED.length,
			width = EXCLUDED.width,
			height = EXCLUDED.height;
		`, p.ID, p.Name, p.Weight.String(), p.Length.String(), p.Width.String(), p.Height.String()); err != nil {
			return fmt.Errorf("seed: insert product id=%d: %w", p.ID, err)
		}
	}

	for _, table := range []string{"users", "vehicles", "products"} {
		q := fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false);`,
			table,
		)
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("seed: reset %s sequence: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}
