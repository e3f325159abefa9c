package ports

import (
	"context"
	"courier-delivery-service/internal/domain"
)

// Port: product reference data management.
// Writes that would break uniqueness or references return domain.ErrConflict.
type ProductRepository interface {
	ProductLookup
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	// Report whether any delivery in one of statuses carries the product.
	ProductInUse(ctx context.Context, id int64, statuses []domain.Status) (bool, error)
}

// Port: vehicle fleet management. License plates are unique.
type VehicleRepository interface {
	VehicleLookup
	CreateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int64) error
	// Report whether any delivery in one of statuses is assigned the vehicle.
	VehicleInUse(ctx context.Context, id int64, statuses []domain.Status) (bool, error)
}
