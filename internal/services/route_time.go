package services

import (
	"courier-delivery-service/internal/domain"
	"slices"

	"github.com/shopspring/decimal"
)

const (
	routeSpeedKmh      = 60
	minutesPerStop     = 30
	routeHoursDecimals = 4
)

// RequiredRouteMinutes converts a distance into driving minutes at a fixed
// average speed and adds a service buffer per stop.
func RequiredRouteMinutes(distanceKm decimal.Decimal, stops int) int64 {
	hours := distanceKm.DivRound(decimal.NewFromInt(routeSpeedKmh), routeHoursDecimals)
	driving := hours.Mul(decimal.NewFromInt(60)).IntPart()
	return driving + int64(stops)*minutesPerStop
}

// orderedStops returns a copy of stops sorted by sequence.
func orderedStops(stops []domain.Stop) []domain.Stop {
	out := slices.Clone(stops)
	slices.SortStableFunc(out, func(a, b domain.Stop) int { return a.Sequence - b.Sequence })
	return out
}
