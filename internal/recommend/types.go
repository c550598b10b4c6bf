// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package recommend

import (
	"fmt"
	"time"
)

// SearchField selects which normalized product column a search matches.
type SearchField string

const (
	// SearchTitle matches against the normalized product title.
	SearchTitle SearchField = "title"
	// SearchCreator matches against the normalized author/artist/maker.
	SearchCreator SearchField = "creator"
)

// Column returns the stored search column for the field.
func (f SearchField) Column() (string, error) {
	switch f {
	case SearchTitle, "":
		return "title_search", nil
	case SearchCreator:
		return "creator_search", nil
	default:
		return "", fmt.Errorf("%w: unknown search field %q", ErrInvalidRequest, string(f))
	}
}

// Product is a catalog entry.
type Product struct {
	// ID is the unique product identifier.
	ID string `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// TitleSearch is the normalized title used for matching.
	TitleSearch string `json:"-"`

	// Creator is the author, artist or maker.
	Creator string `json:"creator"`

	// CreatorSearch is the normalized creator used for matching.
	CreatorSearch string `json:"-"`

	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
	Publisher   string `json:"publisher,omitempty"`
	Description string `json:"description,omitempty"`

	// ReleaseDate is kept as the source text; formats vary by category.
	ReleaseDate string `json:"release_date,omitempty"`
}

// EditionKey identifies duplicate editions of the same work.
type EditionKey struct {
	Title   string
	Creator string
}

// Edition returns the key shared by all editions of p.
func (p Product) Edition() EditionKey {
	return EditionKey{Title: p.TitleSearch, Creator: p.CreatorSearch}
}

// ProductMatch is a search hit with its popularity.
type ProductMatch struct {
	Product

	// Reviews is the number of reviews of the product.
	Reviews int64 `json:"reviews"`
}

// Review is one user's rating of a product.
type Review struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`

	// UserID is nil for anonymous reviews, which never take part in
	// graph expansion or similarity scoring.
	UserID *string `json:"user_id"`

	// Rating is on the 1-5 scale.
	Rating float64 `json:"rating"`

	Upvotes   int64  `json:"upvotes"`
	Downvotes int64  `json:"downvotes"`
	Title     string `json:"title,omitempty"`
	Body      string `json:"body,omitempty"`
}

// User returns the reviewer id and whether one is set.
func (r Review) User() (string, bool) {
	if r.UserID == nil {
		return "", false
	}
	return *r.UserID, true
}

// Helpful reports whether the review has at least as many upvotes as downvotes.
func (r Review) Helpful() bool {
	return r.Upvotes >= r.Downvotes
}

// Recommendation is a ranked similar product.
type Recommendation struct {
	Product

	// Score is the cosine similarity to the searched product, in [0, 1].
	Score float64 `json:"score"`
}

// ProductQuery describes a product search.
type ProductQuery struct {
	Category string
	// Term must already be normalized when handed to a Store.
	Term             string
	Field            SearchField
	Exact            bool
	RemoveDuplicates bool
}

// Request holds the inputs of one recommendation call.
// Zero pool sizes and limit fall back to the engine configuration.
type Request struct {
	Category    string      `json:"category" validate:"required,max=200"`
	SearchTerm  string      `json:"search_term" validate:"required,max=500"`
	SearchField SearchField `json:"search_field" validate:"omitempty,oneof=title creator"`
	ExactMatch  bool        `json:"exact_match"`

	// FilterUnhelpful drops reviews with more downvotes than upvotes.
	FilterUnhelpful bool `json:"filter_unhelpful"`

	ReviewerPoolSize int `json:"reviewer_pool_size" validate:"gte=0"`
	ProductPoolSize  int `json:"product_pool_size" validate:"gte=0"`

	// MissingRating is the rating assumed where a user did not rate a product.
	MissingRating float64 `json:"missing_rating" validate:"finite,gte=0"`

	Limit            int  `json:"limit" validate:"gte=0"`
	RemoveDuplicates bool `json:"remove_duplicates"`

	// RequestID is carried into logs.
	RequestID string `json:"-"`
}

// ReviewSummary counts what a review set covers.
type ReviewSummary struct {
	Reviews  int `json:"reviews"`
	Users    int `json:"users"`
	Products int `json:"products"`
}

// StageTimings records how long each stage took.
type StageTimings struct {
	Resolve    time.Duration `json:"resolve_ns"`
	Seed       time.Duration `json:"seed_ns"`
	Expand     time.Duration `json:"expand_ns"`
	Similarity time.Duration `json:"similarity_ns"`
	Details    time.Duration `json:"details_ns"`
	Total      time.Duration `json:"total_ns"`
}

// Result is everything a recommendation call produced.
type Result struct {
	// Product is the top match, nil when nothing matched.
	Product *ProductMatch `json:"product"`

	// Matches are all search hits, most reviewed first.
	Matches []ProductMatch `json:"matches"`

	// Reviews are the reviews of Product used to seed the expansion.
	Reviews []Review `json:"reviews"`

	// RelatedReviews is the bounded pool the rating matrix was built from.
	RelatedReviews []Review `json:"related_reviews"`

	Recommendations []Recommendation `json:"recommendations"`

	Summary ReviewSummary `json:"summary"`
	Timings StageTimings  `json:"timings"`

	// Outcome is one of the Outcome* constants.
	Outcome string `json:"outcome"`
}

// Recommend outcomes, also used as metric labels.
const (
	OutcomeOK           = "ok"
	OutcomeNoMatch      = "no_match"
	OutcomeEmptyPool    = "empty_pool"
	OutcomeTargetPruned = "target_pruned"
	OutcomeError        = "error"
)

// emptyResult has non-nil empty collections so JSON renders [] not null.
func emptyResult() *Result {
	return &Result{
		Matches:         []ProductMatch{},
		Reviews:         []Review{},
		RelatedReviews:  []Review{},
		Recommendations: []Recommendation{},
	}
}
