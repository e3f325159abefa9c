package distance

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig controls when the routed lookup is short-circuited.
type BreakerConfig struct {
	Name                  string
	MaxRequests           uint32        // requests allowed in half-open state
	Interval              time.Duration // cyclic period for clearing counts while closed (0 = never)
	OpenTimeout           time.Duration // open -> half-open delay
	FailureThreshold      uint32        // consecutive failures that trip the breaker
	FailureRatioThreshold float64
	MinRequestsToTrip     uint32
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:                  "ors-directions",
		MaxRequests:           1,
		Interval:              time.Minute,
		OpenTimeout:           30 * time.Second,
		FailureThreshold:      5,
		FailureRatioThreshold: 0.6,
		MinRequestsToTrip:     10,
	}
}

func NewBreaker(cfg BreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= cfg.FailureThreshold {
				return true
			}
			if cfg.MinRequestsToTrip > 0 && counts.Requests >= cfg.MinRequestsToTrip {
				ratio := float64(counts.TotalFailures) / float64(counts.Requests)
				return ratio >= cfg.FailureRatioThreshold
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}
