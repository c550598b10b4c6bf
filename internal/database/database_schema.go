// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package database

import (
	"context"
	"fmt"
)

// Column types are valid in both DuckDB and SQLite. No foreign keys:
// reviews may reference products absent from the catalog.
var tableStatements = []string{
	`CREATE TABLE IF NOT EXISTS product (
		id VARCHAR PRIMARY KEY,
		title VARCHAR NOT NULL,
		title_search VARCHAR NOT NULL,
		creator VARCHAR NOT NULL DEFAULT '',
		creator_search VARCHAR NOT NULL DEFAULT '',
		category VARCHAR NOT NULL,
		subcategory VARCHAR NOT NULL DEFAULT '',
		publisher VARCHAR NOT NULL DEFAULT '',
		description VARCHAR NOT NULL DEFAULT '',
		release_date VARCHAR NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS review (
		id VARCHAR PRIMARY KEY,
		product_id VARCHAR NOT NULL,
		user_id VARCHAR,
		rating DOUBLE NOT NULL,
		upvotes BIGINT NOT NULL DEFAULT 0,
		downvotes BIGINT NOT NULL DEFAULT 0,
		title VARCHAR NOT NULL DEFAULT '',
		body VARCHAR NOT NULL DEFAULT ''
	)`,
}

var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_review_product ON review(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_review_user ON review(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_product_category ON product(category)`,
}

func (db *DB) createTables(ctx context.Context) error {
	for _, stmt := range tableStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// CreateIndexes builds the lookup indexes. New calls it unless
// SkipIndexes is set; bulk loads call it once the data is in.
func (db *DB) CreateIndexes(ctx context.Context) error {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	for _, stmt := range indexStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
