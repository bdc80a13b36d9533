// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package metrics exposes Prometheus instrumentation for the version store:
// temporal operations, the version cache, repair sweeps, DuckDB queries and
// the HTTP interface.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Temporal engine
	TemporalOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "temporal_operations_total",
			Help: "Versioning operations by entity family, operation and outcome",
		},
		[]string{"family", "operation", "outcome"}, // outcome: ok, collision, not_found, audit_error, error
	)

	TemporalOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "temporal_operation_duration_seconds",
			Help:    "Duration of versioning operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"family", "operation"},
	)

	TemporalRepairs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "temporal_repairs_total",
			Help: "Per-version repair actions by family and outcome",
		},
		[]string{"family", "outcome"}, // outcome: collapsed, closed, nudged, failed
	)

	RepairSweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "temporal_repair_sweep_duration_seconds",
			Help:    "Duration of a full repair sweep across all families",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
	)

	RepairSweepLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "temporal_repair_sweep_last_success_timestamp",
			Help: "Unix timestamp of the last sweep that completed without storage errors",
		},
	)

	// Version cache
	VersionCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "version_cache_requests_total",
			Help: "Version cache lookups by family and result (hit, miss)",
		},
		[]string{"family", "result"},
	)

	VersionCacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "version_cache_invalidations_total",
			Help: "Version cache entries cleared by writes",
		},
		[]string{"family"},
	)

	// Database
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// HTTP interface
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "HTTP requests by method, route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordTemporalOp records one versioning operation.
func RecordTemporalOp(family, operation, outcome string, duration time.Duration) {
	TemporalOperations.WithLabelValues(family, operation, outcome).Inc()
	TemporalOperationDuration.WithLabelValues(family, operation).Observe(duration.Seconds())
}

// RecordRepair adds n repair actions of the given outcome.
func RecordRepair(family, outcome string, n int) {
	if n <= 0 {
		return
	}
	TemporalRepairs.WithLabelValues(family, outcome).Add(float64(n))
}

// RecordRepairSweep records a completed sweep.
func RecordRepairSweep(duration time.Duration, err error) {
	RepairSweepDuration.Observe(duration.Seconds())
	if err == nil {
		RepairSweepLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordCacheLookup counts a version cache hit or miss.
func RecordCacheLookup(family string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	VersionCacheRequests.WithLabelValues(family, result).Inc()
}

// RecordCacheInvalidation counts a cleared cache entry.
func RecordCacheInvalidation(family string) {
	VersionCacheInvalidations.WithLabelValues(family).Inc()
}

// RecordDBQuery records a DuckDB query.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an HTTP request.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
