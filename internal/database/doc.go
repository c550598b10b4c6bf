// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

// Package database is the review store behind the recommendation engine.
//
// Two embedded engines are supported through database/sql:
//
//   - duckdb (default): github.com/duckdb/duckdb-go/v2, suited to large
//     review dumps and analytical scans.
//   - sqlite: modernc.org/sqlite, a pure-Go single-file store.
//
// The schema has two tables. product holds catalog entries plus the
// normalized title_search and creator_search columns written at ingest.
// review holds one row per review; user_id is NULL for anonymous reviews.
//
// *DB implements recommend.Store for reads and ingest.Sink for batched
// writes. BreakerStore wraps any recommend.Store in a circuit breaker so a
// failing store is reported as unavailable instead of being hammered.
//
// All values are bound as query parameters. The only identifiers built from
// request data are the search columns, which come from a fixed whitelist in
// recommend.SearchField.Column.
package database
