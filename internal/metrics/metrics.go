// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mission_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mission_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mission_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	RateLimitRejects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mission_rate_limit_rejects_total",
			Help: "Total number of requests rejected due to rate limiting",
		},
	)

	// HabitablePlanets is set after each catalog load.
	HabitablePlanets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mission_habitable_planets",
			Help: "Number of habitable planets found by the last catalog load",
		},
	)

	CatalogRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mission_catalog_rows_total",
			Help: "Dataset rows processed by the catalog loader, by outcome",
		},
		[]string{"outcome"},
	)

	LaunchesScheduled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mission_launches_scheduled_total",
			Help: "Launches scheduled through the API",
		},
	)

	LaunchesAborted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mission_launches_aborted_total",
			Help: "Launches transitioned to aborted",
		},
	)

	LaunchesImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mission_launches_imported_total",
			Help: "Historical launches imported from the SpaceX API",
		},
	)
)

// Catalog row outcomes.
const (
	OutcomeHabitable = "habitable"
	OutcomeDiscarded = "discarded"
	OutcomeFailed    = "failed"
)
