package domain

import (
	"fmt"
	"time"
)

// LineItem references a product by id only.
type LineItem struct {
	ProductID int64
	Quantity  int
}

type Stop struct {
	Sequence int
	Location Coordinates
	Items    []LineItem
}

// Candidate is a proposed delivery that has not been persisted yet.
type Candidate struct {
	CourierID int64
	VehicleID int64
	Date      Date
	Window    TimeWindow
	Stops     []Stop
}

type Delivery struct {
	ID        int64
	CourierID int64
	VehicleID int64
	CreatedBy int64
	Date      Date
	Window    TimeWindow
	Status    Status
	Stops     []Stop
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (d Delivery) Candidate() Candidate {
	return Candidate{
		CourierID: d.CourierID,
		VehicleID: d.VehicleID,
		Date:      d.Date,
		Window:    d.Window,
		Stops:     d.Stops,
	}
}

// DeliveryFilter narrows List results. Zero values match everything.
// From and To are inclusive bounds and either may be open.
type DeliveryFilter struct {
	Date      *Date
	From      *Date
	To        *Date
	CourierID int64
	Status    Status
}

func (f DeliveryFilter) Match(d Delivery) bool {
	if f.Date != nil && *f.Date != d.Date {
		return false
	}
	if f.From != nil && d.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && d.Date.After(*f.To) {
		return false
	}
	if f.CourierID != 0 && f.CourierID != d.CourierID {
		return false
	}
	if f.Status != "" && f.Status != d.Status {
		return false
	}
	return true
}

// Number is the human-facing delivery reference, e.g. DEL-2026-007.
func (d Delivery) Number() string {
	return fmt.Sprintf("DEL-%d-%03d", d.Date.Year, d.ID)
}
