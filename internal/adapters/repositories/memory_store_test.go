package repositories

import (
	"context"
	"sync"
	"testing"

	"courier-delivery-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWindow(t *testing.T, start, end string) domain.TimeWindow {
	t.Helper()
	s, err := domain.ParseTimeOfDay(start)
	require.NoError(t, err)
	e, err := domain.ParseTimeOfDay(end)
	require.NoError(t, err)
	return domain.TimeWindow{Start: s, End: e}
}

func TestMemoryStoreLookupsReturnNotFound(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	_, err := m.ProductByID(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = m.VehicleByID(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = m.UserByID(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = m.GetDelivery(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, m.DeleteDelivery(ctx, 1), domain.ErrNotFound)
	assert.ErrorIs(t, m.UpdateStatus(ctx, 1, domain.StatusCancelled), domain.ErrNotFound)
}

func TestMemoryStoreUsersByRoleSortedByID(t *testing.T) {
	m := NewMemoryStore()
	m.AddUser(domain.User{ID: 3, Role: domain.RoleCourier})
	m.AddUser(domain.User{ID: 1, Role: domain.RoleCourier})
	m.AddUser(domain.User{ID: 2, Role: domain.RoleManager})

	couriers, err := m.UsersByRole(context.Background(), domain.RoleCourier)
	require.NoError(t, err)
	require.Len(t, couriers, 2)
	assert.Equal(t, int64(1), couriers[0].ID)
	assert.Equal(t, int64(3), couriers[1].ID)
}

func TestMemoryStoreOverlappingDeliveries(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	date := domain.Date{Year: 2030, Month: 1, Day: 10}

	create := func(vehicle int64, d domain.Date, w domain.TimeWindow, st domain.Status) int64 {
		saved, err := m.CreateDelivery(ctx, domain.Delivery{VehicleID: vehicle, Date: d, Window: w, Status: st})
		require.NoError(t, err)
		return saved.ID
	}

	overlapping := create(1, date, mustWindow(t, "09:00", "13:00"), domain.StatusPlanned)
	create(1, date, mustWindow(t, "13:00", "15:00"), domain.StatusPlanned)   // touches only
	create(1, date, mustWindow(t, "10:00", "11:00"), domain.StatusCompleted) // terminal
	create(2, date, mustWindow(t, "10:00", "11:00"), domain.StatusPlanned)   // other vehicle
	create(1, date.AddDays(1), mustWindow(t, "10:00", "11:00"), domain.StatusPlanned)
	inProgress := create(1, date, mustWindow(t, "11:30", "12:30"), domain.StatusInProgress)

	got, err := m.OverlappingDeliveries(ctx, 1, date, mustWindow(t, "12:00", "13:00"), domain.TerminalStatuses, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, overlapping, got[0].ID)
	assert.Equal(t, inProgress, got[1].ID)

	got, err = m.OverlappingDeliveries(ctx, 1, date, mustWindow(t, "12:00", "13:00"), domain.TerminalStatuses, overlapping)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inProgress, got[0].ID)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	saved, err := m.CreateDelivery(ctx, domain.Delivery{
		Status: domain.StatusPlanned,
		Stops: []domain.Stop{{
			Sequence: 1,
			Location: domain.NewCoordinates(55.75, 37.61),
			Items:    []domain.LineItem{{ProductID: 1, Quantity: 2}},
		}},
	})
	require.NoError(t, err)

	saved.Stops[0].Items[0].Quantity = 99

	got, err := m.GetDelivery(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stops[0].Items[0].Quantity)
}

func TestMemoryStoreUpdateKeepsCreationFields(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	saved, err := m.CreateDelivery(ctx, domain.Delivery{CreatedBy: 5, Status: domain.StatusPlanned})
	require.NoError(t, err)

	saved.CreatedBy = 0
	saved.CourierID = 9
	updated, err := m.UpdateDelivery(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, int64(5), updated.CreatedBy)
	assert.Equal(t, int64(9), updated.CourierID)
	assert.Equal(t, saved.CreatedAt, updated.CreatedAt)
}

func TestMemoryStoreUpdateDoesNotRewriteStatus(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	stale, err := m.CreateDelivery(ctx, domain.Delivery{Status: domain.StatusPlanned})
	require.NoError(t, err)
	require.NoError(t, m.UpdateStatus(ctx, stale.ID, domain.StatusCancelled))

	stale.CourierID = 9
	updated, err := m.UpdateDelivery(ctx, stale)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Status)

	got, err := m.GetDelivery(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	assert.Equal(t, int64(9), got.CourierID)
}

func TestMemoryStoreListDeliveriesFilter(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	d1 := domain.Date{Year: 2030, Month: 1, Day: 10}
	d2 := d1.AddDays(1)

	for _, d := range []domain.Delivery{
		{CourierID: 1, Date: d2, Status: domain.StatusPlanned},
		{CourierID: 1, Date: d1, Status: domain.StatusPlanned},
		{CourierID: 2, Date: d1, Status: domain.StatusCancelled},
	} {
		_, err := m.CreateDelivery(ctx, d)
		require.NoError(t, err)
	}

	all, err := m.ListDeliveries(ctx, domain.DeliveryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, d1, all[0].Date)

	byCourier, err := m.ListDeliveries(ctx, domain.DeliveryFilter{CourierID: 1})
	require.NoError(t, err)
	assert.Len(t, byCourier, 2)

	byDate, err := m.ListDeliveries(ctx, domain.DeliveryFilter{Date: &d1, Status: domain.StatusCancelled})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, int64(2), byDate[0].CourierID)

	byRange, err := m.ListDeliveries(ctx, domain.DeliveryFilter{CourierID: 1, From: &d2, To: &d2})
	require.NoError(t, err)
	require.Len(t, byRange, 1)
	assert.Equal(t, d2, byRange[0].Date)
}

func TestMemoryStoreConcurrentCreates(t *testing.T) {
	m := NewMemoryStore()
	m.AddVehicle(domain.Vehicle{ID: 1, MaxWeight: decimal.NewFromInt(1), MaxVolume: decimal.NewFromInt(1)})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.CreateDelivery(context.Background(), domain.Delivery{VehicleID: 1})
		}()
	}
	wg.Wait()

	all, err := m.ListDeliveries(context.Background(), domain.DeliveryFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 50)
}
