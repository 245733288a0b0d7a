// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_http_active_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_recommendations_total",
			Help: "Total number of recommendation lookups",
		},
		[]string{"result"}, // "success", "unknown_title", "canceled"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelmatch_recommendation_duration_seconds",
			Help:    "Recommendation lookup duration including poster resolution",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	CatalogMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_catalog_movies",
			Help: "Number of movies in the loaded catalog",
		},
	)

	// Poster Cache Metrics
	PosterCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelmatch_poster_cache_hits_total",
			Help: "Total number of poster cache hits",
		},
	)

	PosterCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelmatch_poster_cache_misses_total",
			Help: "Total number of poster cache misses",
		},
	)

	PosterCacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelmatch_poster_cache_evictions_total",
			Help: "Total number of poster cache capacity evictions",
		},
	)

	PosterCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_poster_cache_entries",
			Help: "Current number of cached poster lookups",
		},
	)

	PosterUnavailable = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelmatch_poster_unavailable_total",
			Help: "Total number of poster lookups that degraded to no image",
		},
	)

	// TMDB Client Metrics
	TMDBRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_tmdb_requests_total",
			Help: "Total number of TMDB HTTP attempts by status",
		},
		[]string{"status"}, // HTTP status code or "error"
	)

	TMDBRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelmatch_tmdb_request_duration_seconds",
			Help:    "TMDB lookup duration including retries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	TMDBRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelmatch_tmdb_retries_total",
			Help: "Total number of TMDB request retries",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reelmatch_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reelmatch_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// WebSocket Metrics
	WSConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_websocket_connections_active",
			Help: "Current number of open recommendation WebSocket connections",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records the outcome and latency of one lookup.
func RecordRecommendation(result string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(result).Inc()
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordTMDBAttempt records one HTTP attempt; status 0 means a transport error.
func RecordTMDBAttempt(status int) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	TMDBRequestsTotal.WithLabelValues(label).Inc()
}
