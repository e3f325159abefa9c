package services

import (
	"context"
	"testing"

	"courier-delivery-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCourierDeliveries(f *fixture) *CourierDeliveries {
	f.store.AddUser(domain.User{ID: secondCourierID, Login: "courier2", Role: domain.RoleCourier})
	return NewCourierDeliveries(f.store, f.store, f.store, f.ledger)
}

func TestCourierDeliveriesSummary(t *testing.T) {
	f := newFixture(t)
	svc := newCourierDeliveries(f)

	d := f.commit(t, window(t, "09:00", "13:00"), domain.StatusPlanned,
		stop(1, moscow, item(heavyProductID, 1), item(lightProductID, 2)),
		stop(2, nearby, item(lightProductID, 1)),
	)

	got, err := svc.List(context.Background(), courierID, courierID, CourierQuery{})
	require.NoError(t, err)
	require.Len(t, got, 1)

	cd := got[0]
	assert.Equal(t, d.ID, cd.Delivery.ID)
	assert.Equal(t, "DEL-2026-001", cd.Number)
	assert.Equal(t, 2, cd.PointsCount)
	assert.Equal(t, 4, cd.ProductsCount)
	assert.True(t, cd.TotalWeight.Equal(decimal.NewFromInt(750)), "weight %s", cd.TotalWeight)
	require.NotNil(t, cd.Vehicle)
	assert.Equal(t, "A001AA", cd.Vehicle.LicensePlate)
}

func TestCourierDeliveriesFilters(t *testing.T) {
	f := newFixture(t)
	svc := newCourierDeliveries(f)
	ctx := context.Background()

	later := future.AddDays(5)
	for _, d := range []domain.Delivery{
		{CourierID: courierID, VehicleID: truckID, Date: future, Status: domain.StatusPlanned},
		{CourierID: courierID, VehicleID: truckID, Date: later, Status: domain.StatusCancelled},
		{CourierID: courierID, VehicleID: truckID, Date: later.AddDays(5), Status: domain.StatusPlanned},
		{CourierID: secondCourierID, VehicleID: truckID, Date: future, Status: domain.StatusPlanned},
	} {
		d.Window = window(t, "09:00", "10:00")
		_, err := f.store.CreateDelivery(ctx, d)
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		query CourierQuery
		want  int
	}{
		{"all own", CourierQuery{}, 3},
		{"date", CourierQuery{Date: &future}, 1},
		{"status", CourierQuery{Status: domain.StatusPlanned}, 2},
		{"range", CourierQuery{From: &future, To: &later}, 2},
		{"range and status", CourierQuery{From: &future, To: &later, Status: domain.StatusCancelled}, 1},
		{"open range", CourierQuery{From: &later}, 2},
		{"date wins over range", CourierQuery{Date: &future, From: &later, To: &later}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.List(ctx, 0, courierID, tc.query)
			require.NoError(t, err)
			assert.Len(t, got, tc.want)
			for _, cd := range got {
				assert.Equal(t, courierID, cd.Delivery.CourierID)
			}
		})
	}

	_, err := svc.List(ctx, 0, courierID, CourierQuery{From: &later, To: &future})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCourierDeliveriesAccess(t *testing.T) {
	f := newFixture(t)
	svc := newCourierDeliveries(f)
	ctx := context.Background()

	d := f.commit(t, window(t, "09:00", "13:00"), domain.StatusPlanned, stop(1, moscow, item(lightProductID, 1)))

	got, err := svc.Get(ctx, courierID, courierID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.Delivery.ID)

	_, err = svc.Get(ctx, managerID, courierID, d.ID)
	require.NoError(t, err, "managers may read any courier's deliveries")

	_, err = svc.Get(ctx, secondCourierID, secondCourierID, d.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.List(ctx, secondCourierID, courierID, CourierQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.List(ctx, 0, managerID, CourierQuery{})
	assert.ErrorIs(t, err, domain.ErrNotCourier)

	_, err = svc.Get(ctx, courierID, courierID, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCourierDeliveriesWithoutVehicleOnFile(t *testing.T) {
	f := newFixture(t)
	svc := newCourierDeliveries(f)
	ctx := context.Background()

	d, err := f.store.CreateDelivery(ctx, domain.Delivery{
		CourierID: courierID, VehicleID: 404, Date: future,
		Window: window(t, "09:00", "10:00"), Status: domain.StatusPlanned,
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, courierID, courierID, d.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Vehicle)
	assert.Zero(t, got.PointsCount)
	assert.True(t, got.TotalWeight.IsZero())
}
