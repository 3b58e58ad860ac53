// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Ingestion run outcomes, durations, and snapshot sizes
// - Upstream API calls and circuit breaker health
// - DuckDB query performance

var (
	// API Metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Ingestion Metrics
	IngestRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_runs_total",
			Help: "Total number of ingestion runs by outcome",
		},
		[]string{"result"}, // "success", "skipped", "failure"
	)

	IngestRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_run_duration_seconds",
			Help:    "Duration of completed ingestion runs in seconds",
			Buckets: []float64{10, 30, 60, 120, 300, 600, 1800, 3600},
		},
	)

	IngestSnapshotRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ingest_snapshot_rows",
			Help: "Fact rows written by the most recent snapshot merge",
		},
	)

	IngestTitlesStaged = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ingest_titles_staged",
			Help: "Distinct titles staged by the most recent ingestion run",
		},
	)

	IngestTitlesMissing = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_titles_missing_total",
			Help: "Titles whose metadata pull exhausted the retry budget",
		},
	)

	IngestRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ingest_running",
			Help: "Whether an ingestion run is currently in progress (0 or 1)",
		},
	)

	// Upstream Metrics
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total upstream API requests by host and outcome",
		},
		[]string{"upstream", "result"}, // result: "success", "retry", "failure"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Circuit breaker request outcomes",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation"},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	code := strconv.Itoa(statusCode)
	APIRequestDuration.WithLabelValues(method, endpoint, code).Observe(duration.Seconds())
	APIRequestsTotal.WithLabelValues(method, endpoint, code).Inc()
}

// RecordIngestRun records the outcome of an ingestion run. Duration is
// only observed for completed runs, never skipped ones.
func RecordIngestRun(result string, duration time.Duration) {
	IngestRuns.WithLabelValues(result).Inc()
	if result == "success" || result == "failure" {
		IngestRunDuration.Observe(duration.Seconds())
	}
}

// RecordDBQuery records one database query.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}
