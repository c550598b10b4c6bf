// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package database

import (
	"context"
	"errors"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/presto/internal/config"
	"github.com/tomtom215/presto/internal/logging"
	"github.com/tomtom215/presto/internal/metrics"
	"github.com/tomtom215/presto/internal/recommend"
)

const breakerName = "review-store"

// BreakerStore guards a recommend.Store with a circuit breaker. After
// FailureThreshold consecutive failures reads are rejected with
// ErrStoreUnavailable until Timeout elapses and a probe succeeds.
type BreakerStore struct {
	next recommend.Store
	cb   *gobreaker.CircuitBreaker[interface{}]
}

var _ recommend.Store = (*BreakerStore)(nil)

// NewBreakerStore wraps next.
func NewBreakerStore(next recommend.Store, cfg config.BreakerConfig) *BreakerStore {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	logger := logging.WithComponent("breaker")

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A caller giving up is not a store failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state change")
			metrics.RecordBreakerTransition(name, from.String(), to.String(), stateToFloat(to))
		},
	})

	return &BreakerStore{next: next, cb: cb}
}

// State reports the breaker state: closed, half-open or open.
func (s *BreakerStore) State() string {
	return s.cb.State().String()
}

func (s *BreakerStore) FindProducts(ctx context.Context, q recommend.ProductQuery) ([]recommend.ProductMatch, error) {
	return execute(s, func() ([]recommend.ProductMatch, error) { return s.next.FindProducts(ctx, q) })
}

func (s *BreakerStore) ReviewsForProducts(ctx context.Context, productIDs []string) ([]recommend.Review, error) {
	return execute(s, func() ([]recommend.Review, error) { return s.next.ReviewsForProducts(ctx, productIDs) })
}

func (s *BreakerStore) ReviewsByUsers(ctx context.Context, userIDs []string) ([]recommend.Review, error) {
	return execute(s, func() ([]recommend.Review, error) { return s.next.ReviewsByUsers(ctx, userIDs) })
}

func (s *BreakerStore) ProductsByIDs(ctx context.Context, ids []string) ([]recommend.Product, error) {
	return execute(s, func() ([]recommend.Product, error) { return s.next.ProductsByIDs(ctx, ids) })
}

// execute runs fn through the breaker and maps rejections to
// ErrStoreUnavailable.
func execute[T any](s *BreakerStore, fn func() (T, error)) (T, error) {
	var zero T
	result, err := s.cb.Execute(func() (interface{}, error) {
		v, err := fn()
		return v, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
