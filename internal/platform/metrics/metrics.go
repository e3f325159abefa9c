package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the dedicated Prometheus registry for the service
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// FeasibilityVerdicts counts validator outcomes; result is "admitted" or the rejection reason
	FeasibilityVerdicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "feasibility_verdicts_total", Help: "Feasibility verdicts by result."},
		[]string{"result"},
	)
	// DistanceLookups counts distance estimates by source: routed, cache, fallback
	DistanceLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "distance_lookups_total", Help: "Distance lookups by source."},
		[]string{"source"},
	)
	DistanceLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "distance_lookup_duration_seconds", Help: "Routed distance lookup duration in seconds.", Buckets: prometheus.DefBuckets},
	)

	GenerationAdmitted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "generation_admitted_total", Help: "Deliveries admitted by bulk generation."},
	)
	GenerationWarnings = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "generation_warnings_total", Help: "Warnings produced by bulk generation."},
	)
)

var regOnce sync.Once

// RegisterDefault registers collectors to Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(FeasibilityVerdicts)
		Registry.MustRegister(DistanceLookups)
		Registry.MustRegister(DistanceLatency)
		Registry.MustRegister(GenerationAdmitted)
		Registry.MustRegister(GenerationWarnings)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
