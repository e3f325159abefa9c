package services

import (
	"context"
	"errors"
	"testing"

	"courier-delivery-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProducts struct {
	inner interface {
		ProductByID(ctx context.Context, id int64) (domain.Product, error)
	}
	calls int
}

func (c *countingProducts) ProductByID(ctx context.Context, id int64) (domain.Product, error) {
	c.calls++
	return c.inner.ProductByID(ctx, id)
}

func TestCommittedLoadSumsOverlappingNonTerminal(t *testing.T) {
	f := newFixture(t)
	f.commit(t, window(t, "09:00", "13:00"), domain.StatusPlanned,
		stop(1, moscow, item(heavyProductID, 1)),
		stop(2, nearby, item(lightProductID, 2)))
	f.commit(t, window(t, "12:30", "14:00"), domain.StatusInProgress, stop(1, moscow, item(bulkyProductID, 1)))
	f.commit(t, window(t, "12:00", "13:00"), domain.StatusCancelled, stop(1, moscow, item(heavyProductID, 1)))
	f.commit(t, window(t, "16:00", "17:00"), domain.StatusPlanned, stop(1, moscow, item(heavyProductID, 1)))

	load, err := f.ledger.CommittedLoad(context.Background(), truckID, future, window(t, "12:00", "16:00"), 0)
	require.NoError(t, err)

	assert.True(t, load.Weight.Equal(decimal.NewFromInt(710)), "weight %s", load.Weight)
	assert.True(t, load.Volume.Equal(decimal.RequireFromString("9.002")), "volume %s", load.Volume)
}

func TestStopsLoadMemoizesProductsPerCall(t *testing.T) {
	f := newFixture(t)
	products := &countingProducts{inner: f.store}
	ledger := NewCapacityLedger(f.store, products)

	load, err := ledger.StopsLoad(context.Background(), []domain.Stop{
		stop(1, moscow, item(lightProductID, 1), item(lightProductID, 2)),
		stop(2, nearby, item(lightProductID, 3)),
	})
	require.NoError(t, err)
	assert.True(t, load.Weight.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, 1, products.calls)

	_, err = ledger.StopsLoad(context.Background(), []domain.Stop{stop(1, moscow, item(lightProductID, 1))})
	require.NoError(t, err)
	assert.Equal(t, 2, products.calls, "memo must not outlive a call")
}

func TestStopsLoadRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.StopsLoad(context.Background(), []domain.Stop{stop(1, moscow, item(lightProductID, 0))})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
