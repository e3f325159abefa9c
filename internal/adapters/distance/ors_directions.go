package distance

import (
	"context"
	"courier-delivery-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

type directionsResponse struct {
	Features []struct {
		Properties struct {
			Summary struct {
				Distance *float64 `json:"distance"`
				Duration *float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

// fetchRouteMeters retrieves the routed distance between two coordinates
// using the OpenRouteService directions endpoint.
func (o *ORSDistanceProvider) fetchRouteMeters(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/v2/directions/%s?%s", o.baseURL, o.profile, url.Values{
		"start": {lonLat(from)},
		"end":   {lonLat(to)},
	}.Encode())

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return decimal.Zero, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Features) == 0 {
		return decimal.Zero, errors.New("directions returned no features")
	}

	meters := dr.Features[0].Properties.Summary.Distance
	if meters == nil || *meters < 0 {
		return decimal.Zero, errors.New("directions returned no distance summary")
	}

	return decimal.NewFromFloat(*meters), nil
}

// ORS expects "lon,lat".
func lonLat(c domain.Coordinates) string {
	ll := c.CoordsToList()
	return strconv.FormatFloat(ll[0], 'f', -1, 64) + "," + strconv.FormatFloat(ll[1], 'f', -1, 64)
}
