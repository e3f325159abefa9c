package distance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"courier-delivery-service/internal/domain"
	"courier-delivery-service/internal/platform/logging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	moscow = domain.NewCoordinates(55.7558, 37.6176)
	spb    = domain.NewCoordinates(59.9311, 30.3609)
	nearby = domain.NewCoordinates(55.7600, 37.6200)
)

type mapCache struct {
	mu sync.Mutex
	m  map[string]decimal.Decimal
}

func newMapCache() *mapCache { return &mapCache{m: map[string]decimal.Decimal{}} }

func (c *mapCache) Get(_ context.Context, from, to domain.Coordinates) (decimal.Decimal, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	km, ok := c.m[from.Key()+"|"+to.Key()]
	return km, ok, nil
}

func (c *mapCache) Put(_ context.Context, from, to domain.Coordinates, km decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[from.Key()+"|"+to.Key()] = km
	return nil
}

type failingProvider struct{ calls int }

func (p *failingProvider) DistanceKm(context.Context, domain.Coordinates, domain.Coordinates) (decimal.Decimal, error) {
	p.calls++
	return decimal.Zero, errors.New("routing unavailable")
}

type slowProvider struct{}

func (slowProvider) DistanceKm(ctx context.Context, _, _ domain.Coordinates) (decimal.Decimal, error) {
	<-ctx.Done()
	return decimal.Zero, ctx.Err()
}

func TestEstimatorUsesRoutedDistanceAndCachesIt(t *testing.T) {
	provider := NewMockDistanceProvider([]MockPair{{From: moscow, To: spb, Km: 635.0}})
	cache := newMapCache()
	est := NewFallbackEstimator(provider, logging.Discard(), WithCache(cache))

	km := est.EstimateKm(context.Background(), moscow, spb)
	assert.True(t, km.Equal(decimal.NewFromInt(635)))

	km = est.EstimateKm(context.Background(), moscow, spb)
	assert.True(t, km.Equal(decimal.NewFromInt(635)))
	assert.Equal(t, int64(1), provider.Calls(), "second lookup must be served from cache")
}

func TestEstimatorFallsBackToHaversineOnFailure(t *testing.T) {
	est := NewFallbackEstimator(&failingProvider{}, logging.Discard())

	km := est.EstimateKm(context.Background(), moscow, nearby)
	assert.True(t, km.Equal(Haversine(moscow, nearby)))
}

func TestEstimatorFallsBackOnTimeout(t *testing.T) {
	est := NewFallbackEstimator(slowProvider{}, logging.Discard(), WithTimeout(20*time.Millisecond))

	start := time.Now()
	km := est.EstimateKm(context.Background(), moscow, spb)
	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, km.Equal(Haversine(moscow, spb)))
}

func TestEstimatorBreakerStopsCallingFailingProvider(t *testing.T) {
	cfg := DefaultBreakerConfig()
	cfg.FailureThreshold = 2
	cfg.OpenTimeout = time.Hour

	provider := &failingProvider{}
	est := NewFallbackEstimator(provider, logging.Discard(), WithBreaker(NewBreaker(cfg, logging.Discard())))

	for range 5 {
		km := est.EstimateKm(context.Background(), moscow, spb)
		require.True(t, km.Equal(Haversine(moscow, spb)))
	}
	assert.Equal(t, 2, provider.calls)
}

func TestEstimatorWithoutProviderIsHaversine(t *testing.T) {
	est := NewFallbackEstimator(nil, logging.Discard())
	assert.True(t, est.EstimateKm(context.Background(), spb, moscow).Equal(Haversine(moscow, spb)))
}

// stalledCache blocks until the caller's context ends.
type stalledCache struct{}

func (stalledCache) Get(ctx context.Context, _, _ domain.Coordinates) (decimal.Decimal, bool, error) {
	<-ctx.Done()
	return decimal.Zero, false, ctx.Err()
}

func (stalledCache) Put(ctx context.Context, _, _ domain.Coordinates, _ decimal.Decimal) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestEstimatorDoesNotWaitOnStalledCache(t *testing.T) {
	provider := NewMockDistanceProvider([]MockPair{{From: moscow, To: spb, Km: 635.0}})
	est := NewFallbackEstimator(provider, logging.Discard(),
		WithCache(stalledCache{}), WithTimeout(20*time.Millisecond))

	start := time.Now()
	km := est.EstimateKm(context.Background(), moscow, spb)
	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, km.Equal(decimal.NewFromInt(635)))
	assert.Equal(t, int64(1), provider.Calls())
}
