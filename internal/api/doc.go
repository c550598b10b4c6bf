// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

/*
Package api serves product search, review listings and recommendations
over HTTP using the Chi router.

Routes:

	GET /api/v1/health                       liveness, store ping and row counts
	GET /api/v1/products/search              products matching a term
	GET /api/v1/products/{id}/reviews        a product's reviews, best first
	GET /api/v1/recommendations              products similar to a search hit
	GET /metrics                             Prometheus exposition

All responses use the models.APIResponse envelope. Errors map to status
codes as follows:

  - 400 VALIDATION_ERROR: bad or missing query parameters
  - 404 NOT_FOUND: unknown product id
  - 422 INTRACTABLE_COMPUTATION: the rating matrix would be too large
  - 503 STORE_UNAVAILABLE: the store circuit breaker is open
  - 504 TIMEOUT: the request deadline passed
  - 500 INTERNAL_ERROR: anything else

Middleware order: request id with logging context, real IP, panic
recovery, CORS, then per-group rate limits, security headers and request
metrics.
*/
package api
