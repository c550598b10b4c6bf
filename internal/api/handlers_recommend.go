// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/presto/internal/logging"
	"github.com/tomtom215/presto/internal/metrics"
	"github.com/tomtom215/presto/internal/recommend"
	"github.com/tomtom215/presto/internal/textnorm"
)

// Recommendations handles GET /api/v1/recommendations.
//
// Query parameters:
//   - category, q: required; q is matched against field (title|creator)
//   - exact: require the whole normalized field to equal q
//   - filter: drop reviews with more downvotes than upvotes
//   - reviewers, products: pool bounds
//   - fill: rating assumed for unrated cells
//   - limit: number of recommendations
//   - dedupe: collapse duplicate editions
//
// Omitted parameters take the engine defaults. A search with no match
// answers 200 with an empty result and outcome "no_match".
//
// Successful results are cached per normalized request when
// RECOMMEND_CACHE_SIZE is set; the X-Cache header reports HIT or MISS.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	req := h.engine.NewRequest(q.String("category"), q.String("q"))

	if field := q.String("field"); field != "" {
		req.SearchField = recommend.SearchField(field)
	}
	req.ExactMatch = q.Bool("exact", req.ExactMatch)
	req.FilterUnhelpful = q.Bool("filter", req.FilterUnhelpful)
	req.ReviewerPoolSize = q.Int("reviewers", req.ReviewerPoolSize)
	req.ProductPoolSize = q.Int("products", req.ProductPoolSize)
	req.MissingRating = q.Float("fill", req.MissingRating)
	req.Limit = q.Int("limit", req.Limit)
	req.RemoveDuplicates = q.Bool("dedupe", req.RemoveDuplicates)
	req.RequestID = logging.RequestIDFromContext(r.Context())

	if perr := q.Err(); perr != nil {
		respondAPIError(w, r, http.StatusBadRequest, perr.apiError())
		return
	}

	key, cacheable := h.resultKey(req)
	if cacheable {
		res, hit := h.results.Get(key)
		metrics.RecordCacheLookup(hit)
		if hit {
			w.Header().Set("X-Cache", "HIT")
			respondSuccess(w, r, res, 0)
			return
		}
		w.Header().Set("X-Cache", "MISS")
	}

	res, err := h.engine.Recommend(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if cacheable && res.Outcome == recommend.OutcomeOK {
		h.results.Add(key, res)
	}

	respondSuccess(w, r, res, res.Timings.Total)
}

// resultKey identifies a request for the response cache. Requests that
// differ only in the spelling of the search term share a key.
func (h *Handler) resultKey(req recommend.Request) (string, bool) {
	if h.results == nil {
		return "", false
	}
	req.SearchTerm = textnorm.Normalize(req.SearchTerm)
	req.RequestID = ""
	data, err := json.Marshal(req)
	if err != nil {
		return "", false
	}
	return string(data), true
}
