package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type RejectionReason string

const (
	ReasonTimeOrderInvalid      RejectionReason = "TIME_ORDER_INVALID"
	ReasonPastDate              RejectionReason = "PAST_DATE"
	ReasonInsufficientRouteTime RejectionReason = "INSUFFICIENT_ROUTE_TIME"
	ReasonWeightExceeded        RejectionReason = "WEIGHT_EXCEEDED"
	ReasonVolumeExceeded        RejectionReason = "VOLUME_EXCEEDED"
)

// CapacityBreakdown explains a weight or volume rejection.
// Required is Committed plus New.
type CapacityBreakdown struct {
	Max       decimal.Decimal
	Required  decimal.Decimal
	Committed decimal.Decimal
	New       decimal.Decimal
	Unit      string
}

type RouteTimeBreakdown struct {
	RequiredMinutes  int64
	AvailableMinutes int64
	DistanceKm       decimal.Decimal
}

// Rejection is a user-correctable feasibility failure.
type Rejection struct {
	Reason    RejectionReason
	Capacity  *CapacityBreakdown
	RouteTime *RouteTimeBreakdown
}

func (r *Rejection) Error() string {
	switch {
	case r.Capacity != nil:
		return fmt.Sprintf("%s: max %s %s, required %s %s (committed %s + new %s)",
			r.Reason,
			r.Capacity.Max.String(), r.Capacity.Unit,
			r.Capacity.Required.String(), r.Capacity.Unit,
			r.Capacity.Committed.String(), r.Capacity.New.String())
	case r.RouteTime != nil:
		return fmt.Sprintf("%s: required %d min, available %d min, distance %s km",
			r.Reason,
			r.RouteTime.RequiredMinutes, r.RouteTime.AvailableMinutes,
			r.RouteTime.DistanceKm.StringFixed(2))
	case r.Reason == ReasonTimeOrderInvalid:
		return fmt.Sprintf("%s: start time must be before end time", r.Reason)
	case r.Reason == ReasonPastDate:
		return fmt.Sprintf("%s: delivery date is not in the future", r.Reason)
	}
	return string(r.Reason)
}

// Verdict is the outcome of a feasibility check.
type Verdict struct {
	Admitted  bool
	Rejection *Rejection
}

func Admit() Verdict { return Verdict{Admitted: true} }

func Reject(r *Rejection) Verdict { return Verdict{Rejection: r} }

// Err returns the rejection as an error, or nil when admitted.
func (v Verdict) Err() error {
	if v.Admitted || v.Rejection == nil {
		return nil
	}
	return v.Rejection
}
