package services

import (
	"context"
	"testing"
	"time"

	"courier-delivery-service/internal/adapters/distance"
	"courier-delivery-service/internal/adapters/repositories"
	"courier-delivery-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	heavyProductID  int64 = 1 // 600 kg, 1 m3
	bulkyProductID  int64 = 2 // 10 kg, 8 m3
	lightProductID  int64 = 3 // 50 kg, 0.001 m3
	truckID         int64 = 1 // 1000 kg, 10 m3
	courierID       int64 = 10
	managerID       int64 = 20
	secondCourierID int64 = 11
)

var (
	today  = domain.Date{Year: 2026, Month: time.October, Day: 17}
	future = today.AddDays(10)

	moscow = domain.NewCoordinates(55.7558, 37.6176)
	spb    = domain.NewCoordinates(59.9311, 30.3609)
	nearby = domain.NewCoordinates(55.7600, 37.6200)
)

type fixture struct {
	store     *repositories.MemoryStore
	distance  *distance.MockDistanceProvider
	ledger    *CapacityLedger
	validator *FeasibilityValidator
}

func fixedClock() time.Time {
	return time.Date(today.Year, today.Month, today.Day, 12, 0, 0, 0, time.UTC)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := repositories.NewMemoryStore()
	store.AddProduct(domain.Product{
		ID: heavyProductID, Name: "pallet",
		Weight: decimal.NewFromInt(600),
		Length: decimal.NewFromInt(100), Width: decimal.NewFromInt(100), Height: decimal.NewFromInt(100),
	})
	store.AddProduct(domain.Product{
		ID: bulkyProductID, Name: "foam",
		Weight: decimal.NewFromInt(10),
		Length: decimal.NewFromInt(200), Width: decimal.NewFromInt(200), Height: decimal.NewFromInt(200),
	})
	store.AddProduct(domain.Product{
		ID: lightProductID, Name: "box",
		Weight: decimal.NewFromInt(50),
		Length: decimal.NewFromInt(10), Width: decimal.NewFromInt(10), Height: decimal.NewFromInt(10),
	})
	store.AddVehicle(domain.Vehicle{
		ID: truckID, Brand: "Ford", LicensePlate: "A001AA",
		MaxWeight: decimal.NewFromInt(1000), MaxVolume: decimal.NewFromInt(10),
	})
	store.AddUser(domain.User{ID: courierID, Login: "courier", Role: domain.RoleCourier})
	store.AddUser(domain.User{ID: managerID, Login: "manager", Role: domain.RoleManager})

	dist := distance.NewMockDistanceProvider([]distance.MockPair{
		{From: moscow, To: spb, Km: 635.0},
		{From: moscow, To: nearby, Km: 2.5},
	})

	ledger := NewCapacityLedger(store, store)
	validator := NewFeasibilityValidator(store, ledger, dist, WithClock(fixedClock))

	return &fixture{store: store, distance: dist, ledger: ledger, validator: validator}
}

func window(t *testing.T, start, end string) domain.TimeWindow {
	t.Helper()
	s, err := domain.ParseTimeOfDay(start)
	require.NoError(t, err)
	e, err := domain.ParseTimeOfDay(end)
	require.NoError(t, err)
	return domain.TimeWindow{Start: s, End: e}
}

func stop(seq int, at domain.Coordinates, items ...domain.LineItem) domain.Stop {
	return domain.Stop{Sequence: seq, Location: at, Items: items}
}

func item(productID int64, qty int) domain.LineItem {
	return domain.LineItem{ProductID: productID, Quantity: qty}
}

func candidate(w domain.TimeWindow, stops ...domain.Stop) domain.Candidate {
	return domain.Candidate{
		CourierID: courierID,
		VehicleID: truckID,
		Date:      future,
		Window:    w,
		Stops:     stops,
	}
}

// commit stores a delivery directly, bypassing validation.
func (f *fixture) commit(t *testing.T, w domain.TimeWindow, status domain.Status, stops ...domain.Stop) domain.Delivery {
	t.Helper()
	d, err := f.store.CreateDelivery(context.Background(), domain.Delivery{
		CourierID: courierID,
		VehicleID: truckID,
		Date:      future,
		Window:    w,
		Status:    status,
		Stops:     stops,
	})
	require.NoError(t, err)
	return d
}
