// Package metrics exposes Prometheus collectors for the HTTP layer and the
// query pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Query outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

var (
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "housing_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "housing_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	// QueriesTotal counts projection queries by strategy and outcome.
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "housing_queries_total",
			Help: "Total number of projection queries",
		},
		[]string{"strategy", "outcome"},
	)
	// QueryDuration is the compile, execute and reshape latency of a query.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "housing_query_duration_seconds",
			Help:    "Projection query latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)
	// RowsReturned counts rows returned by projection queries.
	RowsReturned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "housing_query_rows_total",
			Help: "Total number of rows returned by projection queries",
		},
		[]string{"strategy"},
	)
)

// Prometheus records query observations in the package collectors.
type Prometheus struct{}

// ObserveQuery records one projection query.
func (Prometheus) ObserveQuery(strategy, outcome string, elapsed time.Duration, rows int) {
	if strategy == "" {
		strategy = "unknown"
	}
	QueriesTotal.WithLabelValues(strategy, outcome).Inc()
	QueryDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	if rows > 0 {
		RowsReturned.WithLabelValues(strategy).Add(float64(rows))
	}
}

// ObserveRequest records one HTTP request.
func ObserveRequest(method, route, status string, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	RequestTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler returns the Prometheus HTTP handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
