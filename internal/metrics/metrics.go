// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "presto_recommend_stage_duration_seconds",
			Help:    "Duration of recommendation pipeline stages in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"},
	)

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presto_recommendations_total",
			Help: "Total number of recommendation calls by outcome",
		},
		[]string{"outcome"},
	)

	RecommendPoolSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "presto_recommend_pool_size",
			Help:    "Size of the bounded review pool fed to the rating matrix",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12), // 1 .. ~4M
		},
		[]string{"dimension"},
	)

	RecommendMatrixCells = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "presto_recommend_matrix_cells",
			Help:    "Dense shape (users x products) of rating matrices",
			Buckets: prometheus.ExponentialBuckets(100, 10, 9), // 100 .. 1e10
		},
	)

	RecommendMatrixWarnings = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "presto_recommend_matrix_warnings_total",
			Help: "Rating matrices above the warning threshold",
		},
	)

	RecommendCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presto_recommend_cache_total",
			Help: "Recommendation response cache lookups by result",
		},
		[]string{"result"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "presto_db_query_duration_seconds",
			Help:    "Duration of store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presto_db_query_errors_total",
			Help: "Total number of store query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presto_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "presto_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "presto_api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	StoreRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "presto_store_rows",
			Help: "Rows currently held by the review store",
		},
		[]string{"table"},
	)

	// Ingest Metrics
	IngestRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presto_ingest_records_total",
			Help: "Total number of ingested records by table and result",
		},
		[]string{"table", "result"}, // "inserted", "skipped", "error"
	)

	IngestBatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "presto_ingest_batch_duration_seconds",
			Help:    "Duration of ingest batch inserts in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"table"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "presto_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presto_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// RecordRecommendStage records the duration of one pipeline stage
func RecordRecommendStage(stage string, duration time.Duration) {
	RecommendStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordRecommendation counts a finished recommendation call
func RecordRecommendation(outcome string) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveReviewPool records the shape of a bounded review pool
func ObserveReviewPool(reviews, users, products int) {
	RecommendPoolSize.WithLabelValues("reviews").Observe(float64(reviews))
	RecommendPoolSize.WithLabelValues("users").Observe(float64(users))
	RecommendPoolSize.WithLabelValues("products").Observe(float64(products))
}

// ObserveMatrix records the dense shape of a rating matrix
func ObserveMatrix(users, products int, warned bool) {
	RecommendMatrixCells.Observe(float64(users) * float64(products))
	if warned {
		RecommendMatrixWarnings.Inc()
	}
}

// RecordCacheLookup counts a response cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	RecommendCacheTotal.WithLabelValues(result).Inc()
}

// RecordDBQuery records a store query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// SetStoreRows publishes the current store row counts
func SetStoreRows(products, reviews int64) {
	StoreRows.WithLabelValues("product").Set(float64(products))
	StoreRows.WithLabelValues("review").Set(float64(reviews))
}

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

// RecordIngestBatch records the outcome of one ingest batch
func RecordIngestBatch(table string, inserted, skipped, failed int, duration time.Duration) {
	IngestBatchDuration.WithLabelValues(table).Observe(duration.Seconds())
	IngestRecordsTotal.WithLabelValues(table, "inserted").Add(float64(inserted))
	IngestRecordsTotal.WithLabelValues(table, "skipped").Add(float64(skipped))
	IngestRecordsTotal.WithLabelValues(table, "error").Add(float64(failed))
}

// RecordBreakerTransition records a circuit breaker state change
func RecordBreakerTransition(name, from, to string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}
