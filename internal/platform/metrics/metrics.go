// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes the Prometheus collectors of the recommendation API.

Collectors are registered on the default registry through promauto, so the
/metrics endpoint only needs promhttp.Handler(). Callers use the Record*
helpers instead of touching the vectors directly.
*/
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// # Outcome Labels

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeEmpty   = "empty"
)

var (
	// # HTTP

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	APIRateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
	)

	// # Catalog

	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_items",
			Help: "Number of items in the active catalog index",
		},
	)

	CatalogLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_loads_total",
			Help: "Catalog provider attempts by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	CatalogLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_load_duration_seconds",
			Help:    "Time spent loading the catalog from a provider",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// # Interactions

	InteractionOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interaction_operations_total",
			Help: "Interaction store operations by kind and outcome",
		},
		[]string{"operation", "outcome"},
	)

	InteractionEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interaction_events_published_total",
			Help: "Interaction events handed to the message broker",
		},
		[]string{"kind", "outcome"},
	)

	// # Recommendations

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Recommendation requests by strategy",
		},
		[]string{"strategy"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Time spent computing a recommendation list",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
		[]string{"kind"},
	)

	// # Resilience

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RecordAPIRequest records a finished HTTP request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRateLimitHit counts a rejected request.
func RecordRateLimitHit() {
	APIRateLimitHits.Inc()
}

// RecordCatalogLoad records one provider attempt.
func RecordCatalogLoad(source, outcome string, duration time.Duration) {
	CatalogLoadsTotal.WithLabelValues(source, outcome).Inc()
	CatalogLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// SetCatalogSize publishes the active catalog size.
func SetCatalogSize(size int) {
	CatalogItems.Set(float64(size))
}

// RecordInteraction records a store operation.
func RecordInteraction(operation string, err error) {
	InteractionOpsTotal.WithLabelValues(operation, outcomeOf(err)).Inc()
}

// RecordEventPublish records an attempt to publish an interaction event.
func RecordEventPublish(kind string, err error) {
	InteractionEventsTotal.WithLabelValues(kind, outcomeOf(err)).Inc()
}

// RecordRecommendation records a computed list.
func RecordRecommendation(kind, strategy string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(strategy).Inc()
	RecommendationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// SetCircuitBreakerState publishes a breaker state (0 closed, 1 half-open, 2 open).
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

func outcomeOf(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
