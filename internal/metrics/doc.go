// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

/*
Package metrics provides Prometheus metrics for the recommendation
pipeline, the store, the HTTP API and the ingest jobs.

Metrics are registered on the default registry through promauto and are
exposed by the API at /metrics:

	curl http://localhost:8750/metrics

# Available Metrics

Recommendation Metrics:
  - presto_recommend_stage_duration_seconds: Stage latency (histogram)
    Labels: stage (resolve, seed, expand, similarity, details)
  - presto_recommendations_total: Completed calls (counter)
    Labels: outcome (ok, no_match, empty_pool, target_pruned, error)
  - presto_recommend_pool_size: Bounded pool size (histogram)
    Labels: dimension (reviews, users, products)
  - presto_recommend_matrix_cells: users × products of the rating matrix

Database Metrics:
  - presto_db_query_duration_seconds: Query time (histogram)
    Labels: operation, table
  - presto_db_query_errors_total: Failed queries (counter)
    Labels: operation, table, error_type

API Metrics:
  - presto_api_requests_total, presto_api_request_duration_seconds,
    presto_api_active_requests

Ingest Metrics:
  - presto_ingest_records_total: Records by table and result
  - presto_ingest_batch_duration_seconds: Batch insert time

Circuit Breaker Metrics:
  - presto_circuit_breaker_state: 0 closed, 1 half-open, 2 open
  - presto_circuit_breaker_transitions_total

# Usage

	start := time.Now()
	rows, err := db.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("find_products", "product", time.Since(start), err)
*/
package metrics
