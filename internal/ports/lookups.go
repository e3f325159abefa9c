package ports

import (
	"context"
	"courier-delivery-service/internal/domain"
)

// Lookups return an error matching domain.ErrNotFound for unknown ids.

type ProductLookup interface {
	ProductByID(ctx context.Context, id int64) (domain.Product, error)
}

type VehicleLookup interface {
	VehicleByID(ctx context.Context, id int64) (domain.Vehicle, error)
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
}

type UserLookup interface {
	UserByID(ctx context.Context, id int64) (domain.User, error)
	UsersByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

// Port: read access to committed deliveries for capacity accounting.
type DeliveryLookup interface {
	// Return deliveries of the vehicle on the date whose window overlaps window,
	// skipping the excluded statuses and the excluded delivery id (0 for none).
	OverlappingDeliveries(
		ctx context.Context,
		vehicleID int64,
		date domain.Date,
		window domain.TimeWindow,
		excludeStatuses []domain.Status,
		excludeID int64,
	) ([]domain.Delivery, error)
}
