package ports

import (
	"context"
	"courier-delivery-service/internal/domain"
)

// Port: persistence of deliveries with their stops and line items.
// Create and Update are all-or-nothing.
type DeliveryRepository interface {
	DeliveryLookup
	CreateDelivery(ctx context.Context, d domain.Delivery) (domain.Delivery, error)
	UpdateDelivery(ctx context.Context, d domain.Delivery) (domain.Delivery, error)
	DeleteDelivery(ctx context.Context, id int64) error
	GetDelivery(ctx context.Context, id int64) (domain.Delivery, error)
	ListDeliveries(ctx context.Context, filter domain.DeliveryFilter) ([]domain.Delivery, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) error
}

// Store bundles every persistence port a single backend serves.
type Store interface {
	ProductRepository
	VehicleRepository
	UserLookup
	DeliveryRepository
}
