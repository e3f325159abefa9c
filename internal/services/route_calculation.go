package services

import (
	"courier-delivery-service/internal/domain"
	"fmt"
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

const (
	calcSpeedKmh  = 30.0
	bufferMinimum = 1.2
	bufferSpread  = 0.1
)

// RouteEstimate is a rough plan for a multi-stop route.
type RouteEstimate struct {
	DistanceKm      decimal.Decimal
	DurationMinutes int
	Suggested       domain.TimeWindow
}

// RouteCalculator sums straight-line legs and pads the driving time with a
// random buffer in [1.2, 1.3).
type RouteCalculator struct {
	random func() float64
}

func NewRouteCalculator(random func() float64) *RouteCalculator {
	if random == nil {
		random = rand.Float64
	}
	return &RouteCalculator{random: random}
}

func (rc *RouteCalculator) Calculate(points []domain.Coordinates) (RouteEstimate, error) {
	if len(points) < 2 {
		return RouteEstimate{}, fmt.Errorf("calculate route: %w: at least 2 points required, got %d",
			domain.ErrInvalidInput, len(points))
	}

	total := 0.0
	for i := 0; i < len(points)-1; i++ {
		total += domain.GreatCircleKm(points[i], points[i+1])
	}

	drivingMinutes := int(total / calcSpeedKmh * 60)
	buffer := bufferMinimum + rc.random()*bufferSpread
	duration := int(float64(drivingMinutes) * buffer)

	start := domain.NewTimeOfDay(dayStartHour, 0)

	return RouteEstimate{
		DistanceKm:      decimal.NewFromFloat(total).Round(2),
		DurationMinutes: duration,
		Suggested: domain.TimeWindow{
			Start: start,
			End:   start.AddMinutes(duration),
		},
	}, nil
}
