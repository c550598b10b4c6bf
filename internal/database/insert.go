// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/presto/internal/database/query"
	"github.com/tomtom215/presto/internal/metrics"
	"github.com/tomtom215/presto/internal/recommend"
)

// InsertProducts writes products in one transaction. Rows whose id already
// exists are skipped; the number actually inserted is returned.
func (db *DB) InsertProducts(ctx context.Context, products []recommend.Product) (inserted int, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", "product", time.Since(start), err) }()

	return db.insertBatch(ctx, "product", productColumns, len(products), func(stmt *sql.Stmt, i int) (sql.Result, error) {
		p := products[i]
		return stmt.ExecContext(ctx,
			p.ID, p.Title, p.TitleSearch, p.Creator, p.CreatorSearch,
			p.Category, p.Subcategory, p.Publisher, p.Description, p.ReleaseDate,
		)
	})
}

// InsertReviews writes reviews in one transaction, skipping existing ids.
func (db *DB) InsertReviews(ctx context.Context, reviews []recommend.Review) (inserted int, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", "review", time.Since(start), err) }()

	return db.insertBatch(ctx, "review", reviewColumns, len(reviews), func(stmt *sql.Stmt, i int) (sql.Result, error) {
		r := reviews[i]
		var user sql.NullString
		if r.UserID != nil {
			user = sql.NullString{String: *r.UserID, Valid: true}
		}
		return stmt.ExecContext(ctx,
			r.ID, r.ProductID, user, r.Rating, r.Upvotes, r.Downvotes, r.Title, r.Body,
		)
	})
}

// insertBatch prepares INSERT OR IGNORE for table and runs exec for each
// of the n rows inside a transaction.
func (db *DB) insertBatch(ctx context.Context, table string, columns []string, n int, exec func(*sql.Stmt, int) (sql.Result, error)) (int, error) {
	if n == 0 {
		return 0, nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin %s insert: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT OR IGNORE INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), query.Placeholders(len(columns)),
	))
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare %s insert: %w", table, err)
	}
	defer closeWithLog(stmt, &db.logger, "statement")

	inserted := 0
	for i := 0; i < n; i++ {
		res, err := exec(stmt, i)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert %s row %d: %w", table, i, err)
		}
		if affected, err := res.RowsAffected(); err == nil {
			inserted += int(affected)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit %s insert: %w", table, err)
	}
	return inserted, nil
}
