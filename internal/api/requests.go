// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package api

// SearchRequest holds the validated query of GET /products/search.
type SearchRequest struct {
	Category string `json:"category" validate:"required,max=200"`
	Term     string `json:"q" validate:"required,max=500"`
	Field    string `json:"field" validate:"omitempty,oneof=title creator"`
	Exact    bool   `json:"exact"`
	Dedupe   bool   `json:"dedupe"`
	Limit    int    `json:"limit" validate:"gte=0"`
}

// ProductReviewsRequest holds the validated input of
// GET /products/{id}/reviews.
type ProductReviewsRequest struct {
	ProductID string `json:"id" validate:"required,max=200"`
	Limit     int    `json:"limit" validate:"gte=0"`
}
