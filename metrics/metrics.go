// Package metrics provides Prometheus metrics for the PMDA crawl and the
// dataset HTTP server:
//   - pmda_fetch_total: Counter with endpoint and status labels
//   - pmda_fetch_retries_total: Counter with endpoint label
//   - pmda_products_collected_total: Counter with dataset label
//   - pmda_extraction_entries_total: Counter with origin label
//   - http_request_total / http_request_duration_seconds /
//     http_request_in_flight: server-side request metrics
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pmda_fetch_total",
			Help: "Total outbound requests against PMDA, by endpoint and result",
		},
		[]string{"endpoint", "status"},
	)

	FetchRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pmda_fetch_retries_total",
			Help: "Retries performed on transient fetch failures",
		},
		[]string{"endpoint"},
	)

	ProductsCollectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pmda_products_collected_total",
			Help: "Unique products aggregated, by dataset",
		},
		[]string{"dataset"},
	)

	ExtractionEntriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pmda_extraction_entries_total",
			Help: "Ingredient entries produced by the field extractor, by origin",
		},
		[]string{"origin"},
	)

	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)
)

func init() {
	prometheus.MustRegister(FetchTotal)
	prometheus.MustRegister(FetchRetriesTotal)
	prometheus.MustRegister(ProductsCollectedTotal)
	prometheus.MustRegister(ExtractionEntriesTotal)
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
}
