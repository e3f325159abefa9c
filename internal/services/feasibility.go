package services

import (
	"context"
	"courier-delivery-service/internal/domain"
	"courier-delivery-service/internal/platform/metrics"
	"courier-delivery-service/internal/ports"
	"fmt"
	"time"
)

type dateRule int

const (
	// New deliveries must be scheduled strictly after today.
	strictlyFuture dateRule = iota
	// Existing deliveries may be moved to today.
	todayOrLater
)

// FeasibilityValidator admits or rejects a candidate delivery.
//
// Checks run in a fixed order and the first failing check wins:
// time order, date, weight, volume, route time. The validator keeps no
// mutable state and is safe for concurrent use.
type FeasibilityValidator struct {
	vehicles ports.VehicleLookup
	ledger   *CapacityLedger
	distance ports.DistanceEstimator
	now      func() time.Time
	loc      *time.Location
}

type ValidatorOption func(*FeasibilityValidator)

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) ValidatorOption {
	return func(v *FeasibilityValidator) { v.now = now }
}

// WithLocation sets the time zone used to derive today's date.
func WithLocation(loc *time.Location) ValidatorOption {
	return func(v *FeasibilityValidator) {
		if loc != nil {
			v.loc = loc
		}
	}
}

func NewFeasibilityValidator(
	vehicles ports.VehicleLookup,
	ledger *CapacityLedger,
	distance ports.DistanceEstimator,
	opts ...ValidatorOption,
) *FeasibilityValidator {
	v := &FeasibilityValidator{
		vehicles: vehicles,
		ledger:   ledger,
		distance: distance,
		now:      time.Now,
		loc:      time.UTC,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Today returns the current calendar date in the validator's location.
func (v *FeasibilityValidator) Today() domain.Date {
	return domain.DateOf(v.now().In(v.loc))
}

// Validate checks a brand-new candidate.
//
// A rejection is reported in the verdict. The error is reserved for unknown
// vehicles or products (matching domain.ErrNotFound) and lookup failures.
func (v *FeasibilityValidator) Validate(ctx context.Context, c domain.Candidate) (domain.Verdict, error) {
	return v.validate(ctx, c, strictlyFuture, 0)
}

// ValidateUpdate checks a replacement for the existing delivery id. The
// delivery's own load is left out of the committed load and today is allowed.
func (v *FeasibilityValidator) ValidateUpdate(ctx context.Context, id int64, c domain.Candidate) (domain.Verdict, error) {
	return v.validate(ctx, c, todayOrLater, id)
}

func (v *FeasibilityValidator) validate(
	ctx context.Context,
	c domain.Candidate,
	rule dateRule,
	excludeID int64,
) (domain.Verdict, error) {
	verdict, err := v.check(ctx, c, rule, excludeID)
	if err != nil {
		return domain.Verdict{}, err
	}
	result := "admitted"
	if !verdict.Admitted {
		result = string(verdict.Rejection.Reason)
	}
	metrics.FeasibilityVerdicts.WithLabelValues(result).Inc()
	return verdict, nil
}

func (v *FeasibilityValidator) check(
	ctx context.Context,
	c domain.Candidate,
	rule dateRule,
	excludeID int64,
) (domain.Verdict, error) {
	if !c.Window.Valid() {
		return domain.Reject(&domain.Rejection{Reason: domain.ReasonTimeOrderInvalid}), nil
	}

	today := v.Today()
	if (rule == strictlyFuture && !c.Date.After(today)) ||
		(rule == todayOrLater && c.Date.Before(today)) {
		return domain.Reject(&domain.Rejection{Reason: domain.ReasonPastDate}), nil
	}

	vehicle, err := v.vehicles.VehicleByID(ctx, c.VehicleID)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("validate: vehicle %d: %w", c.VehicleID, err)
	}

	newLoad, err := v.ledger.StopsLoad(ctx, c.Stops)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("validate: candidate load: %w", err)
	}

	committed, err := v.ledger.CommittedLoad(ctx, c.VehicleID, c.Date, c.Window, excludeID)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("validate: %w", err)
	}

	if required := committed.Weight.Add(newLoad.Weight); required.GreaterThan(vehicle.MaxWeight) {
		return domain.Reject(&domain.Rejection{
			Reason: domain.ReasonWeightExceeded,
			Capacity: &domain.CapacityBreakdown{
				Max:       vehicle.MaxWeight,
				Required:  required,
				Committed: committed.Weight,
				New:       newLoad.Weight,
				Unit:      "kg",
			},
		}), nil
	}

	if required := committed.Volume.Add(newLoad.Volume); required.GreaterThan(vehicle.MaxVolume) {
		return domain.Reject(&domain.Rejection{
			Reason: domain.ReasonVolumeExceeded,
			Capacity: &domain.CapacityBreakdown{
				Max:       vehicle.MaxVolume,
				Required:  required,
				Committed: committed.Volume,
				New:       newLoad.Volume,
				Unit:      "m3",
			},
		}), nil
	}

	if len(c.Stops) >= 2 {
		stops := orderedStops(c.Stops)
		first, last := stops[0].Location, stops[len(stops)-1].Location

		km := v.distance.EstimateKm(ctx, first, last)
		required := RequiredRouteMinutes(km, len(stops))
		available := c.Window.Minutes()

		if required > available {
			return domain.Reject(&domain.Rejection{
				Reason: domain.ReasonInsufficientRouteTime,
				RouteTime: &domain.RouteTimeBreakdown{
					RequiredMinutes:  required,
					AvailableMinutes: available,
					DistanceKm:       km,
				},
			}), nil
		}
	}

	return domain.Admit(), nil
}
