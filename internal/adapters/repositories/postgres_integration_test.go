//go:build postgres_integration

package repositories

import (
	"os"
	"testing"

	"courier-delivery-service/internal/domain"
	"courier-delivery-service/internal/platform/db"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStoreRoundTrip(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}
	ctx := t.Context()

	conn, err := db.Open(ctx, dsn, db.DefaultPool)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, InitSchema(ctx, conn))

	data, err := Seed{
		Users: []UserSeed{{ID: 9001, Login: "it-courier", Role: "COURIER"}},
		Vehicles: []VehicleSeed{{
			ID: 9001, LicensePlate: "IT-9001",
			MaxWeight: decimal.NewFromInt(1000), MaxVolume: decimal.NewFromInt(10),
		}},
		Products: []ProductSeed{{
			ID: 9001, Name: "crate", Weight: decimal.NewFromInt(600),
			Length: decimal.NewFromInt(100), Width: decimal.NewFromInt(100), Height: decimal.NewFromInt(100),
		}},
	}.Validate()
	require.NoError(t, err)
	require.NoError(t, SeedPostgres(ctx, conn, data))

	store := NewPostgresStore(conn)

	p, err := store.ProductByID(ctx, 9001)
	require.NoError(t, err)
	assert.True(t, p.Volume().Equal(decimal.NewFromInt(1)))

	date := domain.Date{Year: 2099, Month: 1, Day: 1}
	start, _ := domain.ParseTimeOfDay("09:00")
	end, _ := domain.ParseTimeOfDay("13:00")

	saved, err := store.CreateDelivery(ctx, domain.Delivery{
		CourierID: 9001,
		VehicleID: 9001,
		Date:      date,
		Window:    domain.TimeWindow{Start: start, End: end},
		Status:    domain.StatusPlanned,
		Stops: []domain.Stop{{
			Sequence: 1,
			Location: domain.NewCoordinates(55.7558, 37.6176),
			Items:    []domain.LineItem{{ProductID: 9001, Quantity: 1}},
		}},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.DeleteDelivery(ctx, saved.ID) })

	from, to := date.AddDays(-1), date
	listed, err := store.ListDeliveries(ctx, domain.DeliveryFilter{CourierID: 9001, From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	from = date.AddDays(1)
	listed, err = store.ListDeliveries(ctx, domain.DeliveryFilter{CourierID: 9001, From: &from})
	require.NoError(t, err)
	assert.Empty(t, listed)

	active := []domain.Status{domain.StatusPlanned, domain.StatusInProgress}
	inUse, err := store.ProductInUse(ctx, 9001, active)
	require.NoError(t, err)
	assert.True(t, inUse)
	inUse, err = store.VehicleInUse(ctx, 9001, active)
	require.NoError(t, err)
	assert.True(t, inUse)

	_, err = store.CreateVehicle(ctx, domain.Vehicle{
		Brand: "dup", LicensePlate: "IT-9001",
		MaxWeight: decimal.NewFromInt(1), MaxVolume: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, store.DeleteProduct(ctx, 9001), domain.ErrConflict)

	newStart, _ := domain.ParseTimeOfDay("12:00")
	newEnd, _ := domain.ParseTimeOfDay("16:00")
	got, err := store.OverlappingDeliveries(ctx, 9001, date,
		domain.TimeWindow{Start: newStart, End: newEnd}, domain.TerminalStatuses, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Stops, 1)
	assert.Equal(t, 1, got[0].Stops[0].Items[0].Quantity)
	assert.True(t, got[0].Stops[0].Location.Lat.Equal(decimal.NewFromFloat(55.7558)))

	require.NoError(t, store.UpdateStatus(ctx, saved.ID, domain.StatusCompleted))
	updated, err := store.UpdateDelivery(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)

	got, err = store.OverlappingDeliveries(ctx, 9001, date,
		domain.TimeWindow{Start: newStart, End: newEnd}, domain.TerminalStatuses, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
