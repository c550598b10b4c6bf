// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package database

import (
	"errors"
	"io"

	"github.com/rs/zerolog"
)

var (
	// ErrUnknownDriver is returned by New for a driver other than duckdb or sqlite.
	ErrUnknownDriver = errors.New("unknown database driver")

	// ErrStoreUnavailable is returned by BreakerStore while the breaker is open.
	ErrStoreUnavailable = errors.New("review store unavailable")
)

// closeWithLog closes a resource and logs a failure at warn level.
func closeWithLog(closer io.Closer, logger *zerolog.Logger, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil && logger != nil {
		logger.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource on an error path where the close error is
// not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
