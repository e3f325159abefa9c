package distance

import (
	"context"
	"courier-delivery-service/internal/domain"

	"github.com/shopspring/decimal"
)

// HaversineProvider measures great-circle distance. It never fails.
type HaversineProvider struct{}

func (HaversineProvider) DistanceKm(_ context.Context, from, to domain.Coordinates) (decimal.Decimal, error) {
	return Haversine(from, to), nil
}

func (HaversineProvider) EstimateKm(_ context.Context, from, to domain.Coordinates) decimal.Decimal {
	return Haversine(from, to)
}

// Haversine returns the great-circle distance in kilometres rounded half-up to 2 decimals.
func Haversine(from, to domain.Coordinates) decimal.Decimal {
	return decimal.NewFromFloat(domain.GreatCircleKm(from, to)).Round(2)
}
