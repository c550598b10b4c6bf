// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/presto/internal/models"
	"github.com/tomtom215/presto/internal/recommend"
)

// SearchProducts handles GET /api/v1/products/search.
//
// Query parameters: category and q (required), field (title|creator),
// exact, dedupe and limit. Results are most reviewed first.
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defaults := h.engine.Config().Defaults

	q := newQueryParams(r)
	req := SearchRequest{
		Category: q.String("category"),
		Term:     q.String("q"),
		Field:    q.String("field"),
		Exact:    q.Bool("exact", defaults.ExactMatch),
		Dedupe:   q.Bool("dedupe", defaults.RemoveDuplicates),
		Limit:    q.Int("limit", 0),
	}
	if perr := q.Err(); perr != nil {
		respondAPIError(w, r, http.StatusBadRequest, perr.apiError())
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	matches, err := h.engine.FindProducts(r.Context(), recommend.ProductQuery{
		Category:         req.Category,
		Term:             req.Term,
		Field:            recommend.SearchField(req.Field),
		Exact:            req.Exact,
		RemoveDuplicates: req.Dedupe,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	total := len(matches)
	if limit := h.pageSize(req.Limit); len(matches) > limit {
		matches = matches[:limit]
	}

	respondSuccess(w, r, models.SearchResponse{
		Category: req.Category,
		Term:     req.Term,
		Count:    total,
		Products: matches,
	}, time.Since(start))
}

// ProductReviews handles GET /api/v1/products/{id}/reviews, returning the
// product's reviews ranked by helpfulness.
func (h *Handler) ProductReviews(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	q := newQueryParams(r)
	req := ProductReviewsRequest{
		ProductID: chi.URLParam(r, "id"),
		Limit:     q.Int("limit", 0),
	}
	if perr := q.Err(); perr != nil {
		respondAPIError(w, r, http.StatusBadRequest, perr.apiError())
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	product, ranked, err := h.engine.ProductReviews(r.Context(), req.ProductID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	total := len(ranked)
	if limit := h.pageSize(req.Limit); len(ranked) > limit {
		ranked = ranked[:limit]
	}

	respondSuccess(w, r, models.ProductReviewsResponse{
		Product: product,
		Count:   total,
		Reviews: ranked,
	}, time.Since(start))
}
