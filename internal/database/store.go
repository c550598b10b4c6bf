// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package database

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tomtom215/presto/internal/database/query"
	"github.com/tomtom215/presto/internal/metrics"
	"github.com/tomtom215/presto/internal/recommend"
)

// maxIDsPerQuery bounds the IN list of a single statement.
const maxIDsPerQuery = 500

var _ recommend.Store = (*DB)(nil)

var productColumns = []string{
	"id", "title", "title_search", "creator", "creator_search",
	"category", "subcategory", "publisher", "description", "release_date",
}

var reviewColumns = []string{
	"id", "product_id", "user_id", "rating", "upvotes", "downvotes", "title", "body",
}

// columnList qualifies columns with alias, e.g. "p.id, p.title".
func columnList(alias string, columns []string) string {
	if alias == "" {
		return strings.Join(columns, ", ")
	}
	qualified := make([]string, len(columns))
	for i, c := range columns {
		qualified[i] = alias + "." + c
	}
	return strings.Join(qualified, ", ")
}

// FindProducts implements recommend.Store.
func (db *DB) FindProducts(ctx context.Context, q recommend.ProductQuery) (matches []recommend.ProductMatch, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("find_products", "product", time.Since(start), err) }()

	column, err := q.Field.Column()
	if err != nil {
		return nil, err
	}

	wb := query.NewWhereBuilder().AddEquals("p.category", q.Category)
	if q.Exact {
		wb.AddEquals("p."+column, q.Term)
	} else {
		wb.AddContains("p."+column, q.Term)
	}
	where, args := wb.BuildWithPrefix()

	cols := columnList("p", productColumns)
	stmt := `
		SELECT ` + cols + `, COUNT(*) AS reviews
		FROM review r
		JOIN product p ON r.product_id = p.id
		` + where + `
		GROUP BY ` + cols + `
		ORDER BY reviews DESC, p.id`

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer closeWithLog(rows, &db.logger, "rows")

	matches = []recommend.ProductMatch{}
	for rows.Next() {
		var m recommend.ProductMatch
		dest := append(productDest(&m.Product), &m.Reviews)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return matches, nil
}

// ReviewsForProducts implements recommend.Store.
func (db *DB) ReviewsForProducts(ctx context.Context, productIDs []string) (reviews []recommend.Review, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("reviews_for_products", "review", time.Since(start), err) }()
	return db.reviewsWhereIn(ctx, "product_id", productIDs)
}

// ReviewsByUsers implements recommend.Store.
func (db *DB) ReviewsByUsers(ctx context.Context, userIDs []string) (reviews []recommend.Review, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("reviews_by_users", "review", time.Since(start), err) }()
	return db.reviewsWhereIn(ctx, "user_id", userIDs)
}

// reviewsWhereIn returns reviews whose column is in ids, ordered by id.
func (db *DB) reviewsWhereIn(ctx context.Context, column string, ids []string) ([]recommend.Review, error) {
	reviews := []recommend.Review{}
	chunks := query.Chunks(ids, maxIDsPerQuery)

	for _, chunk := range chunks {
		where, args := query.NewWhereBuilder().AddIn(column, chunk).BuildWithPrefix()
		stmt := `SELECT ` + columnList("", reviewColumns) + ` FROM review ` + where + ` ORDER BY id`

		batch, err := db.queryReviews(ctx, stmt, args)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, batch...)
	}

	if len(chunks) > 1 {
		slices.SortFunc(reviews, func(a, b recommend.Review) int {
			return strings.Compare(a.ID, b.ID)
		})
	}
	return reviews, nil
}

func (db *DB) queryReviews(ctx context.Context, stmt string, args []interface{}) ([]recommend.Review, error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer closeWithLog(rows, &db.logger, "rows")

	var reviews []recommend.Review
	for rows.Next() {
		var (
			r    recommend.Review
			user sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.ProductID, &user, &r.Rating, &r.Upvotes, &r.Downvotes, &r.Title, &r.Body); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		if user.Valid {
			id := user.String
			r.UserID = &id
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}

// ProductsByIDs implements recommend.Store.
func (db *DB) ProductsByIDs(ctx context.Context, ids []string) (products []recommend.Product, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("products_by_ids", "product", time.Since(start), err) }()

	products = []recommend.Product{}
	for _, chunk := range query.Chunks(ids, maxIDsPerQuery) {
		where, args := query.NewWhereBuilder().AddIn("id", chunk).BuildWithPrefix()
		stmt := `SELECT ` + columnList("", productColumns) + ` FROM product ` + where

		batch, err := db.queryProducts(ctx, stmt, args)
		if err != nil {
			return nil, err
		}
		products = append(products, batch...)
	}
	return products, nil
}

func (db *DB) queryProducts(ctx context.Context, stmt string, args []interface{}) ([]recommend.Product, error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query product details: %w", err)
	}
	defer closeWithLog(rows, &db.logger, "rows")

	var products []recommend.Product
	for rows.Next() {
		var p recommend.Product
		if err := rows.Scan(productDest(&p)...); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product details: %w", err)
	}
	return products, nil
}

// productDest returns scan targets in productColumns order.
func productDest(p *recommend.Product) []interface{} {
	return []interface{}{
		&p.ID, &p.Title, &p.TitleSearch, &p.Creator, &p.CreatorSearch,
		&p.Category, &p.Subcategory, &p.Publisher, &p.Description, &p.ReleaseDate,
	}
}
