package repositories

import (
	"context"
	"testing"

	"courier-delivery-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVehicle(plate string) domain.Vehicle {
	return domain.Vehicle{
		Brand: "Ford", LicensePlate: plate,
		MaxWeight: decimal.NewFromInt(1000), MaxVolume: decimal.NewFromInt(10),
	}
}

func TestMemoryStoreVehiclePlatesAreUnique(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	m.AddVehicle(domain.Vehicle{ID: 5, LicensePlate: "A001AA"})

	v, err := m.CreateVehicle(ctx, testVehicle("B002BB"))
	require.NoError(t, err)
	assert.Equal(t, int64(6), v.ID)

	_, err = m.CreateVehicle(ctx, testVehicle("A001AA"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	v.LicensePlate = "A001AA"
	_, err = m.UpdateVehicle(ctx, v)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Keeping its own plate is not a conflict.
	v.LicensePlate = "B002BB"
	v.Brand = "Volvo"
	_, err = m.UpdateVehicle(ctx, v)
	require.NoError(t, err)
	got, err := m.VehicleByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Volvo", got.Brand)

	_, err = m.UpdateVehicle(ctx, domain.Vehicle{ID: 404, LicensePlate: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStoreProductUsage(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	p, err := m.CreateProduct(ctx, domain.Product{Name: "box", Weight: decimal.NewFromInt(1)})
	require.NoError(t, err)
	unused, err := m.CreateProduct(ctx, domain.Product{Name: "crate", Weight: decimal.NewFromInt(2)})
	require.NoError(t, err)
	assert.Equal(t, p.ID+1, unused.ID)

	d, err := m.CreateDelivery(ctx, domain.Delivery{
		VehicleID: 1,
		Status:    domain.StatusCompleted,
		Stops:     []domain.Stop{{Sequence: 1, Items: []domain.LineItem{{ProductID: p.ID, Quantity: 1}}}},
	})
	require.NoError(t, err)

	active := []domain.Status{domain.StatusPlanned, domain.StatusInProgress}
	inUse, err := m.ProductInUse(ctx, p.ID, active)
	require.NoError(t, err)
	assert.False(t, inUse)

	require.NoError(t, m.UpdateStatus(ctx, d.ID, domain.StatusPlanned))
	inUse, err = m.ProductInUse(ctx, p.ID, active)
	require.NoError(t, err)
	assert.True(t, inUse)

	inUse, err = m.VehicleInUse(ctx, 1, active)
	require.NoError(t, err)
	assert.True(t, inUse)

	assert.ErrorIs(t, m.DeleteProduct(ctx, p.ID), domain.ErrConflict)
	require.NoError(t, m.DeleteProduct(ctx, unused.ID))
	assert.ErrorIs(t, m.DeleteProduct(ctx, unused.ID), domain.ErrNotFound)

	products, err := m.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)
}
