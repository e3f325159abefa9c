package distance

import (
	"context"
	"courier-delivery-service/internal/domain"
	"courier-delivery-service/internal/platform/obs"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	DefaultORSBaseURL = "https://api.openrouteservice.org"
	DefaultORSProfile = "driving-car"
)

// ORSDistanceProvider implements DistanceProvider using the OpenRouteService
// directions endpoint.
//
// Outgoing calls are throttled by a token bucket and transient failures are
// retried with backoff. The provider is safe for concurrent use.
type ORSDistanceProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
	limiter *rate.Limiter
}

type ORSOptions struct {
	BaseURL string
	Profile string
	// Requests per second allowed towards ORS. Zero disables throttling.
	RateLimit float64
	Burst     int
	Client    *http.Client
}

func NewORSDistanceProvider(apiKey string, opts ORSOptions) (*ORSDistanceProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSDistanceProvider{
		session: opts.Client,
		apiKey:  apiKey,
		baseURL: opts.BaseURL,
		profile: opts.Profile,
		limiter: rate.NewLimiter(rate.Inf, 1),
	}

	if provider.session == nil {
		provider.session = &http.Client{Timeout: 10 * time.Second}
	}
	if provider.baseURL == "" {
		provider.baseURL = DefaultORSBaseURL
	}
	if provider.profile == "" {
		provider.profile = DefaultORSProfile
	}
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		provider.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return provider, nil
}

// DistanceKm returns the road distance between two points in kilometres,
// rounded half-up to 2 decimals.
func (o *ORSDistanceProvider) DistanceKm(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
) (_ decimal.Decimal, err error) {
	defer obs.Time(ctx, "ors.DistanceKm")(&err)

	if !from.Valid() || !to.Valid() {
		return decimal.Zero, fmt.Errorf("ORS distance: coordinates out of range: %s -> %s", from.Key(), to.Key())
	}

	meters, err := o.fetchRouteMeters(ctx, from, to)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ORS distance %s -> %s: %w", from.Key(), to.Key(), err)
	}

	return meters.Shift(-3).Round(2), nil
}
