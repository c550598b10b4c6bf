// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/presto/internal/logging"
	"github.com/tomtom215/presto/internal/models"
)

const healthCheckTimeout = 5 * time.Second

// Health reports store connectivity and size. A failed ping answers 503
// with status "degraded" so load balancers can act on it.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	health := models.HealthStatus{
		Status:    "healthy",
		Version:   Version,
		Database:  "connected",
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		CheckedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if h.breaker != nil {
		health.Breaker = h.breaker.State()
	}

	status := http.StatusOK
	switch {
	case h.store == nil:
		health.Status = "degraded"
		health.Database = "not configured"
		status = http.StatusServiceUnavailable
	default:
		health.Driver = h.store.Driver()
		if err := h.store.Ping(ctx); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Health check ping failed")
			health.Status = "degraded"
			health.Database = "unreachable"
			status = http.StatusServiceUnavailable
			break
		}
		products, reviews, err := h.store.Counts(ctx)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Health check count failed")
			health.Status = "degraded"
		}
		health.Products = products
		health.Reviews = reviews
	}

	if status != http.StatusOK {
		respondJSON(w, status, &models.APIResponse{
			Status: models.StatusError,
			Data:   health,
			Metadata: models.Metadata{
				Timestamp: time.Now().UTC(),
				RequestID: logging.RequestIDFromContext(r.Context()),
			},
			Error: &models.APIError{Code: models.CodeStoreUnavailable, Message: "Review store unavailable"},
		})
		return
	}
	respondSuccess(w, r, health, time.Since(start))
}
