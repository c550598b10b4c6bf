// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package api

import (
	"context"
	"time"

	"github.com/tomtom215/presto/internal/cache"
	"github.com/tomtom215/presto/internal/config"
	"github.com/tomtom215/presto/internal/recommend"
)

// Version is reported by the health endpoint. Set at build time with
// -ldflags "-X github.com/tomtom215/presto/internal/api.Version=...".
var Version = "dev"

// StoreStatus is what the health endpoint asks of the store.
// *database.DB implements it.
type StoreStatus interface {
	Ping(ctx context.Context) error
	Counts(ctx context.Context) (products, reviews int64, err error)
	Driver() string
}

// BreakerState reports a circuit breaker's state by name.
// *database.BreakerStore implements it.
type BreakerState interface {
	State() string
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: health endpoint
//   - handlers_products.go: product search and review listings
//   - handlers_recommend.go: recommendations
type Handler struct {
	engine    *recommend.Engine
	store     StoreStatus
	breaker   BreakerState
	config    *config.Config
	startTime time.Time

	// results caches successful recommendation responses; nil disables.
	results *cache.LRU[*recommend.Result]
}

// NewHandler creates a handler. breaker may be nil when the store is not
// wrapped in a circuit breaker.
func NewHandler(engine *recommend.Engine, store StoreStatus, breaker BreakerState, cfg *config.Config) *Handler {
	h := &Handler{
		engine:    engine,
		store:     store,
		breaker:   breaker,
		config:    cfg,
		startTime: time.Now(),
	}
	if cfg != nil && cfg.Recommend.CacheSize > 0 {
		h.results = cache.NewLRU[*recommend.Result](cfg.Recommend.CacheSize, cfg.Recommend.CacheTTL)
	}
	return h
}

// pageSize clamps a requested page size to the configured bounds.
func (h *Handler) pageSize(requested int) int {
	def, maxSize := 50, 500
	if h.config != nil {
		if h.config.API.DefaultPageSize > 0 {
			def = h.config.API.DefaultPageSize
		}
		if h.config.API.MaxPageSize > 0 {
			maxSize = h.config.API.MaxPageSize
		}
	}
	switch {
	case requested <= 0:
		return def
	case requested > maxSize:
		return maxSize
	default:
		return requested
	}
}
