package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProductVolumeInCubicMetres(t *testing.T) {
	p := Product{
		Weight: decimal.NewFromInt(600),
		Length: decimal.NewFromInt(100),
		Width:  decimal.NewFromInt(100),
		Height: decimal.NewFromInt(100),
	}
	assert.True(t, p.Volume().Equal(decimal.NewFromInt(1)))
	assert.True(t, p.Valid())

	p.Height = decimal.Zero
	assert.False(t, p.Valid())
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPlanned.CanTransitionTo(StatusInProgress))
	assert.True(t, StatusPlanned.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusInProgress.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusInProgress.CanTransitionTo(StatusCancelled))

	assert.False(t, StatusPlanned.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusPlanned))

	for _, s := range TerminalStatuses {
		assert.True(t, s.IsTerminal())
	}
	assert.False(t, StatusInProgress.IsTerminal())
}

func TestParseRoleByName(t *testing.T) {
	r, err := ParseRole("courier")
	assert.NoError(t, err)
	assert.Equal(t, RoleCourier, r)
	assert.True(t, User{Role: r}.IsCourier())

	_, err = ParseRole("DRIVER")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNotFoundErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("get vehicle: %w", NotFound("vehicle", 7))
	assert.ErrorIs(t, err, ErrNotFound)

	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Equal(t, "vehicle", nf.Resource)
	assert.Equal(t, int64(7), nf.ID)
}

func TestGreatCircleIsSymmetric(t *testing.T) {
	moscow := NewCoordinates(55.7558, 37.6176)
	spb := NewCoordinates(59.9311, 30.3609)

	assert.Equal(t, GreatCircleKm(moscow, spb), GreatCircleKm(spb, moscow))
	assert.InDelta(t, 634.0, GreatCircleKm(moscow, spb), 5.0)
	assert.Zero(t, GreatCircleKm(moscow, moscow))
}

func TestVerdictErr(t *testing.T) {
	assert.NoError(t, Admit().Err())

	v := Reject(&Rejection{Reason: ReasonPastDate})
	var rej *Rejection
	assert.True(t, errors.As(v.Err(), &rej))
	assert.Equal(t, ReasonPastDate, rej.Reason)
}

func TestDeliveryFilterDateRange(t *testing.T) {
	from := Date{Year: 2026, Month: 10, Day: 20}
	to := from.AddDays(2)
	f := DeliveryFilter{From: &from, To: &to}

	assert.False(t, f.Match(Delivery{Date: from.AddDays(-1)}))
	assert.True(t, f.Match(Delivery{Date: from}))
	assert.True(t, f.Match(Delivery{Date: to}))
	assert.False(t, f.Match(Delivery{Date: to.AddDays(1)}))

	open := DeliveryFilter{From: &from}
	assert.True(t, open.Match(Delivery{Date: to.AddDays(100)}))
}

func TestDeliveryNumber(t *testing.T) {
	d := Delivery{ID: 7, Date: Date{Year: 2026, Month: 10, Day: 20}}
	assert.Equal(t, "DEL-2026-007", d.Number())

	d.ID = 1234
	assert.Equal(t, "DEL-2026-1234", d.Number())
}
