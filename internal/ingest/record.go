// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package ingest

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/tomtom215/presto/internal/recommend"
	"github.com/tomtom215/presto/internal/textnorm"
)

// Table names an ingest target.
type Table string

const (
	TableProducts Table = "product"
	TableReviews  Table = "review"
)

// ParseTable accepts the singular or plural table name.
func ParseTable(s string) (Table, error) {
	switch strings.ToLower(s) {
	case "product", "products":
		return TableProducts, nil
	case "review", "reviews":
		return TableReviews, nil
	default:
		return "", fmt.Errorf("unknown table %q: want products or reviews", s)
	}
}

// RequiredColumns lists the fields every record of t must carry.
// A review's user_id key must be present but may be null.
func (t Table) RequiredColumns() []string {
	switch t {
	case TableProducts:
		return []string{"id", "title", "creator", "category"}
	case TableReviews:
		return []string{"product_id", "user_id", "rating", "upvotes"}
	default:
		return nil
	}
}

// ErrSchemaMismatch means a source lacks required columns.
var ErrSchemaMismatch = errors.New("source does not match table schema")

// SchemaError lists the missing columns.
type SchemaError struct {
	Table   Table
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing column(s) %s", e.Table, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaMismatch
}

// Record is one decoded JSONL line.
type Record map[string]Value

// Get returns the named field, or a null Value.
func (r Record) Get(key string) Value {
	return r[key]
}

// First returns the first present, non-null field among keys.
func (r Record) First(keys ...string) Value {
	for _, k := range keys {
		if v, ok := r[k]; ok && !v.IsNull() {
			return v
		}
	}
	return Value{}
}

// CheckColumns returns a *SchemaError when required columns are absent.
func (r Record) CheckColumns(t Table) error {
	var missing []string
	for _, col := range t.RequiredColumns() {
		if _, ok := r[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return &SchemaError{Table: t, Missing: missing}
}

// Transform rewrites a record before it is mapped, e.g. to rename source
// fields. Returning a nil Record skips the line.
type Transform func(Record) (Record, error)

// ToProduct maps a record to a product and computes its search columns.
func (r Record) ToProduct() (recommend.Product, error) {
	p := recommend.Product{
		ID:          r.Get("id").String(),
		Title:       r.Get("title").String(),
		Creator:     r.Get("creator").String(),
		Category:    r.Get("category").String(),
		Subcategory: r.Get("subcategory").String(),
		Publisher:   r.Get("publisher").String(),
		Description: r.Get("description").Single("\n"),
		ReleaseDate: r.Get("release_date").String(),
	}
	if p.ID == "" {
		return p, errors.New("empty product id")
	}
	if p.Category == "" {
		return p, fmt.Errorf("product %s: empty category", p.ID)
	}
	p.TitleSearch = textnorm.Normalize(p.Title)
	p.CreatorSearch = textnorm.Normalize(p.Creator)
	return p, nil
}

// Ratings outside this scale are rejected; a stored 0 would be
// indistinguishable from an unrated cell.
const (
	MinRating = 1
	MaxRating = 5
)

// reviewNamespace seeds ids for sources that do not carry review ids.
var reviewNamespace = uuid.MustParse("6f1c3f0e-5b7a-4c55-9a0e-2f4b8f9d7c21")

// ToReview maps a record to a review. Missing ids are derived from the
// review's content so that re-running an import stays idempotent.
func (r Record) ToReview() (recommend.Review, error) {
	rev := recommend.Review{
		ID:        r.Get("id").String(),
		ProductID: r.Get("product_id").String(),
		Title:     r.Get("title").String(),
		Body:      r.First("body", "review", "text").Single("\n"),
	}
	if rev.ProductID == "" {
		return rev, errors.New("empty product_id")
	}

	if user := r.Get("user_id").String(); user != "" {
		rev.UserID = &user
	}

	var err error
	if rev.Rating, err = r.Get("rating").Float(); err != nil {
		return rev, fmt.Errorf("rating: %w", err)
	}
	if rev.Rating < MinRating || rev.Rating > MaxRating {
		return rev, fmt.Errorf("rating %v outside %v-%v", rev.Rating, MinRating, MaxRating)
	}
	if rev.Upvotes, err = r.Get("upvotes").Int(); err != nil {
		return rev, fmt.Errorf("upvotes: %w", err)
	}
	if down := r.Get("downvotes"); !down.IsNull() {
		if rev.Downvotes, err = down.Int(); err != nil {
			return rev, fmt.Errorf("downvotes: %w", err)
		}
	}

	if rev.ID == "" {
		user, _ := rev.User()
		key := strings.Join([]string{rev.ProductID, user, r.Get("rating").String(), rev.Title, rev.Body}, "\x1f")
		rev.ID = uuid.NewSHA1(reviewNamespace, []byte(key)).String()
	}
	return rev, nil
}
