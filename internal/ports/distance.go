package ports

import (
	"context"
	"courier-delivery-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Contract for a routed distance lookup between two coordinates. May fail.
type DistanceProvider interface {
	// Return road distance in kilometres, rounded to 2 decimals.
	DistanceKm(ctx context.Context, from, to domain.Coordinates) (decimal.Decimal, error)
}

// Contract for a distance lookup that never fails.
type DistanceEstimator interface {
	EstimateKm(ctx context.Context, from, to domain.Coordinates) decimal.Decimal
}

// Port: key/value store of previously resolved distances.
type DistanceCache interface {
	Get(ctx context.Context, from, to domain.Coordinates) (decimal.Decimal, bool, error)
	Put(ctx context.Context, from, to domain.Coordinates, km decimal.Decimal) error
}
