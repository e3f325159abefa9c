package services

import (
	"context"
	"courier-delivery-service/internal/domain"
	"courier-delivery-service/internal/platform/obs"
	"courier-delivery-service/internal/ports"
	"fmt"
	"log/slog"
	"strings"
)

// ActiveStatuses are the statuses that pin a product or vehicle in place.
var ActiveStatuses = []domain.Status{domain.StatusPlanned, domain.StatusInProgress}

// CatalogService manages products and vehicles. Neither can be deleted while
// an active delivery references it.
type CatalogService struct {
	products ports.ProductRepository
	vehicles ports.VehicleRepository
	logger   *slog.Logger
}

func NewCatalogService(products ports.ProductRepository, vehicles ports.VehicleRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{products: products, vehicles: vehicles, logger: logger}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ps, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return ps, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	p, err := s.products.ProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, p domain.Product) (_ domain.Product, err error) {
	defer obs.Time(ctx, "catalog.create_product")(&err)

	if err := checkProduct(p); err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	p, err = s.products.CreateProduct(ctx, p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	s.logger.InfoContext(ctx, "product created", "product_id", p.ID)
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p domain.Product) (_ domain.Product, err error) {
	defer obs.Time(ctx, "catalog.update_product")(&err)

	if err := checkProduct(p); err != nil {
		return domain.Product{}, fmt.Errorf("update product %d: %w", p.ID, err)
	}
	updated, err := s.products.UpdateProduct(ctx, p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product %d: %w", p.ID, err)
	}
	return updated, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) (err error) {
	defer obs.Time(ctx, "catalog.delete_product")(&err)

	if _, err := s.products.ProductByID(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	used, err := s.products.ProductInUse(ctx, id, ActiveStatuses)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if used {
		return fmt.Errorf("delete product %d: %w: used by active deliveries", id, domain.ErrConflict)
	}
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	s.logger.InfoContext(ctx, "product deleted", "product_id", id)
	return nil
}

func (s *CatalogService) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	vs, err := s.vehicles.ListVehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vs, nil
}

func (s *CatalogService) GetVehicle(ctx context.Context, id int64) (domain.Vehicle, error) {
	v, err := s.vehicles.VehicleByID(ctx, id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}

// CreateVehicle registers a vehicle. A plate already on file is a conflict.
func (s *CatalogService) CreateVehicle(ctx context.Context, v domain.Vehicle) (_ domain.Vehicle, err error) {
	defer obs.Time(ctx, "catalog.create_vehicle")(&err)

	v.LicensePlate = strings.TrimSpace(v.LicensePlate)
	if err := checkVehicle(v); err != nil {
		return domain.Vehicle{}, fmt.Errorf("create vehicle: %w", err)
	}
	v, err = s.vehicles.CreateVehicle(ctx, v)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("create vehicle: %w", err)
	}
	s.logger.InfoContext(ctx, "vehicle created", "vehicle_id", v.ID, "license_plate", v.LicensePlate)
	return v, nil
}

// UpdateVehicle rewrites a vehicle. Lowering its limits does not revisit
// deliveries that were already admitted.
func (s *CatalogService) UpdateVehicle(ctx context.Context, v domain.Vehicle) (_ domain.Vehicle, err error) {
	defer obs.Time(ctx, "catalog.update_vehicle")(&err)

	v.LicensePlate = strings.TrimSpace(v.LicensePlate)
	if err := checkVehicle(v); err != nil {
		return domain.Vehicle{}, fmt.Errorf("update vehicle %d: %w", v.ID, err)
	}
	updated, err := s.vehicles.UpdateVehicle(ctx, v)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("update vehicle %d: %w", v.ID, err)
	}
	return updated, nil
}

func (s *CatalogService) DeleteVehicle(ctx context.Context, id int64) (err error) {
	defer obs.Time(ctx, "catalog.delete_vehicle")(&err)

	if _, err := s.vehicles.VehicleByID(ctx, id); err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	used, err := s.vehicles.VehicleInUse(ctx, id, ActiveStatuses)
	if err != nil {
		return fmt.Errorf("delete vehicle %d: %w", id, err)
	}
	if used {
		return fmt.Errorf("delete vehicle %d: %w: assigned to active deliveries", id, domain.ErrConflict)
	}
	if err := s.vehicles.DeleteVehicle(ctx, id); err != nil {
		return fmt.Errorf("delete vehicle %d: %w", id, err)
	}
	s.logger.InfoContext(ctx, "vehicle deleted", "vehicle_id", id)
	return nil
}

func checkProduct(p domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", domain.ErrInvalidInput)
	}
	if !p.Valid() {
		return fmt.Errorf("%w: product weight and dimensions must be positive", domain.ErrInvalidInput)
	}
	return nil
}

func checkVehicle(v domain.Vehicle) error {
	if v.LicensePlate == "" {
		return fmt.Errorf("%w: license plate is required", domain.ErrInvalidInput)
	}
	if !v.HasCapacity() {
		return fmt.Errorf("%w: vehicle limits must be positive", domain.ErrInvalidInput)
	}
	return nil
}
