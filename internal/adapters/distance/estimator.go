package distance

import (
	"context"
	"courier-delivery-service/internal/domain"
	"courier-delivery-service/internal/platform/metrics"
	"courier-delivery-service/internal/ports"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
)

const DefaultLookupTimeout = 3 * time.Second

// FallbackEstimator implements ports.DistanceEstimator.
//
// Lookup order: cache, routed provider (behind a circuit breaker and a
// bounded timeout), haversine. Failures are logged and never returned.
type FallbackEstimator struct {
	primary  ports.DistanceProvider
	fallback ports.DistanceEstimator
	cache    ports.DistanceCache
	breaker  *gobreaker.CircuitBreaker
	timeout  time.Duration
	logger   *slog.Logger
}

type EstimatorOption func(*FallbackEstimator)

func WithCache(c ports.DistanceCache) EstimatorOption {
	return func(e *FallbackEstimator) { e.cache = c }
}

func WithBreaker(b *gobreaker.CircuitBreaker) EstimatorOption {
	return func(e *FallbackEstimator) { e.breaker = b }
}

func WithTimeout(d time.Duration) EstimatorOption {
	return func(e *FallbackEstimator) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewFallbackEstimator wraps primary. A nil primary yields haversine-only estimates.
func NewFallbackEstimator(primary ports.DistanceProvider, logger *slog.Logger, opts ...EstimatorOption) *FallbackEstimator {
	e := &FallbackEstimator{
		primary:  primary,
		fallback: HaversineProvider{},
		timeout:  DefaultLookupTimeout,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.breaker == nil && primary != nil {
		e.breaker = NewBreaker(DefaultBreakerConfig(), logger)
	}
	return e
}

func (e *FallbackEstimator) EstimateKm(ctx context.Context, from, to domain.Coordinates) decimal.Decimal {
	if e.primary == nil {
		metrics.DistanceLookups.WithLabelValues("fallback").Inc()
		return e.fallback.EstimateKm(ctx, from, to)
	}

	if e.cache != nil {
		km, ok, err := e.cacheGet(ctx, from, to)
		if err != nil {
			e.logger.WarnContext(ctx, "distance cache read failed", "err", err)
		} else if ok {
			metrics.DistanceLookups.WithLabelValues("cache").Inc()
			return km
		}
	}

	km, err := e.routed(ctx, from, to)
	if err != nil {
		e.logger.WarnContext(ctx, "routed distance unavailable, using great-circle distance",
			"from", from.Key(), "to", to.Key(), "err", err)
		metrics.DistanceLookups.WithLabelValues("fallback").Inc()
		return e.fallback.EstimateKm(ctx, from, to)
	}

	metrics.DistanceLookups.WithLabelValues("routed").Inc()
	if e.cache != nil {
		if err := e.cachePut(ctx, from, to, km); err != nil {
			e.logger.WarnContext(ctx, "distance cache write failed", "err", err)
		}
	}
	return km
}

// Cache calls are bounded by the lookup timeout too.
func (e *FallbackEstimator) cacheGet(ctx context.Context, from, to domain.Coordinates) (decimal.Decimal, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.cache.Get(ctx, from, to)
}

func (e *FallbackEstimator) cachePut(ctx context.Context, from, to domain.Coordinates, km decimal.Decimal) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.cache.Put(ctx, from, to, km)
}

func (e *FallbackEstimator) routed(ctx context.Context, from, to domain.Coordinates) (decimal.Decimal, error) {
	start := time.Now()
	defer func() { metrics.DistanceLatency.Observe(time.Since(start).Seconds()) }()

	res, err := e.breaker.Execute(func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()
		return e.primary.DistanceKm(lookupCtx, from, to)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return res.(decimal.Decimal), nil
}
