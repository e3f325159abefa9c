package services

import (
	"context"
	"testing"

	"courier-delivery-service/internal/domain"
	"courier-delivery-service/internal/platform/logging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(f *fixture) *CatalogService {
	return NewCatalogService(f.store, f.store, logging.Discard())
}

func TestCatalogProductValidation(t *testing.T) {
	f := newFixture(t)
	svc := newCatalog(f)
	ctx := context.Background()

	valid := domain.Product{
		Name:   "crate",
		Weight: decimal.NewFromInt(5),
		Length: decimal.NewFromInt(10), Width: decimal.NewFromInt(10), Height: decimal.NewFromInt(10),
	}
	p, err := svc.CreateProduct(ctx, valid)
	require.NoError(t, err)
	assert.NotZero(t, p.ID)

	noName := valid
	noName.Name = "  "
	_, err = svc.CreateProduct(ctx, noName)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	flat := valid
	flat.Height = decimal.Zero
	_, err = svc.CreateProduct(ctx, flat)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p.Weight = decimal.NewFromInt(7)
	_, err = svc.UpdateProduct(ctx, p)
	require.NoError(t, err)
	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Weight.Equal(decimal.NewFromInt(7)))

	valid.ID = 404
	_, err = svc.UpdateProduct(ctx, valid)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogDeleteBlockedByActiveDeliveries(t *testing.T) {
	f := newFixture(t)
	svc := newCatalog(f)
	ctx := context.Background()

	d := f.commit(t, window(t, "09:00", "13:00"), domain.StatusInProgress, stop(1, moscow, item(lightProductID, 1)))

	assert.ErrorIs(t, svc.DeleteProduct(ctx, lightProductID), domain.ErrConflict)
	assert.ErrorIs(t, svc.DeleteVehicle(ctx, truckID), domain.ErrConflict)

	require.NoError(t, f.store.DeleteDelivery(ctx, d.ID))
	require.NoError(t, svc.DeleteProduct(ctx, lightProductID))
	require.NoError(t, svc.DeleteVehicle(ctx, truckID))

	assert.ErrorIs(t, svc.DeleteProduct(ctx, lightProductID), domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteVehicle(ctx, truckID), domain.ErrNotFound)
}

func TestCatalogVehiclePlates(t *testing.T) {
	f := newFixture(t)
	svc := newCatalog(f)
	ctx := context.Background()

	v := domain.Vehicle{
		Brand: "Volvo", LicensePlate: " B002BB ",
		MaxWeight: decimal.NewFromInt(500), MaxVolume: decimal.NewFromInt(4),
	}
	created, err := svc.CreateVehicle(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, "B002BB", created.LicensePlate)

	v.LicensePlate = "A001AA"
	_, err = svc.CreateVehicle(ctx, v)
	assert.ErrorIs(t, err, domain.ErrConflict)

	created.LicensePlate = "A001AA"
	_, err = svc.UpdateVehicle(ctx, created)
	assert.ErrorIs(t, err, domain.ErrConflict)

	created.LicensePlate = "B002BB"
	created.MaxWeight = decimal.Zero
	_, err = svc.UpdateVehicle(ctx, created)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	vs, err := svc.ListVehicles(ctx)
	require.NoError(t, err)
	assert.Len(t, vs, 2)
}
