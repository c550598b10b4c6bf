// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/presto/internal/metrics"
)

// RowCounter reports how many products and reviews the store holds.
type RowCounter interface {
	Counts(ctx context.Context) (products, reviews int64, err error)
}

// StoreStatsService publishes store row counts on an interval.
type StoreStatsService struct {
	store    RowCounter
	interval time.Duration
	publish  func(products, reviews int64)
	logger   zerolog.Logger
	name     string
}

// NewStoreStatsService creates the service. A non-positive interval means
// one minute.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewStoreStatsService(store RowCounter, interval time.Duration, logger zerolog.Logger) *StoreStatsService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &StoreStatsService{
		store:    store,
		interval: interval,
		publish:  metrics.SetStoreRows,
		logger:   logger.With().Str("service", "store-stats").Logger(),
		name:     "store-stats",
	}
}

// Serve refreshes the gauges immediately and then on every tick.
// Count failures are logged and retried on the next tick.
func (s *StoreStatsService) Serve(ctx context.Context) error {
	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *StoreStatsService) refresh(ctx context.Context) {
	products, reviews, err := s.store.Counts(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn().Err(err).Msg("Failed to count store rows")
		}
		return
	}
	s.publish(products, reviews)
	s.logger.Debug().Int64("products", products).Int64("reviews", reviews).Msg("Store rows refreshed")
}

// String identifies the service in supervisor logs.
func (s *StoreStatsService) String() string {
	return s.name
}
