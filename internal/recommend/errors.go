// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package recommend

import (
	"errors"

	"github.com/tomtom215/presto/internal/recommend/similarity"
)

var (
	// ErrInvalidRequest wraps request validation failures.
	ErrInvalidRequest = errors.New("invalid recommendation request")

	// ErrProductNotFound is returned for an id the Store does not know.
	ErrProductNotFound = errors.New("product not found")

	// ErrNoStore is returned when the engine has no Store.
	ErrNoStore = errors.New("recommend: no store configured")

	// ErrIntractableComputation is re-exported so callers need not import
	// the similarity package to detect oversized pools.
	ErrIntractableComputation = similarity.ErrIntractableComputation
)
