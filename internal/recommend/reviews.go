// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/presto/internal/recommend/similarity"
)

// RankedReview is a review with its quality score.
type RankedReview struct {
	Review

	// Quality is the smoothed upvote/downvote ratio.
	Quality float64 `json:"quality"`
}

// RankByQuality orders reviews by (1 + up + mean up) / (1 + down + mean down),
// highest first. The means are taken over the given set, which damps
// reviews with few votes toward the set's average.
func RankByQuality(reviews []Review) []RankedReview {
	ranked := make([]RankedReview, len(reviews))
	if len(reviews) == 0 {
		return ranked
	}

	var up, down float64
	for _, r := range reviews {
		up += float64(r.Upvotes)
		down += float64(r.Downvotes)
	}
	avgUp := up / float64(len(reviews))
	avgDown := down / float64(len(reviews))

	for i, r := range reviews {
		ranked[i] = RankedReview{
			Review:  r,
			Quality: (1 + float64(r.Upvotes) + avgUp) / (1 + float64(r.Downvotes) + avgDown),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Quality > ranked[j].Quality
	})
	return ranked
}

// Summarize counts the reviews, distinct reviewers and distinct products
// of a review set. Anonymous reviews count as reviews but not as users.
func Summarize(reviews []Review) ReviewSummary {
	users := make(map[string]struct{})
	products := make(map[string]struct{})
	for _, r := range reviews {
		if user, ok := r.User(); ok {
			users[user] = struct{}{}
		}
		products[r.ProductID] = struct{}{}
	}
	return ReviewSummary{
		Reviews:  len(reviews),
		Users:    len(users),
		Products: len(products),
	}
}

// ratingsOf converts reviews with a reviewer into matrix cells.
func ratingsOf(reviews []Review) []similarity.Rating {
	ratings := make([]similarity.Rating, 0, len(reviews))
	for _, r := range reviews {
		user, ok := r.User()
		if !ok {
			continue
		}
		ratings = append(ratings, similarity.Rating{
			ProductID: r.ProductID,
			UserID:    user,
			Value:     r.Rating,
		})
	}
	return ratings
}

// ProductReviews returns a product with its reviews ranked by quality.
func (e *Engine) ProductReviews(ctx context.Context, productID string) (*Product, []RankedReview, error) {
	products, err := e.store.ProductsByIDs(ctx, []string{productID})
	if err != nil {
		return nil, nil, fmt.Errorf("get product: %w", err)
	}
	if len(products) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	reviews, err := e.store.ReviewsForProducts(ctx, []string{productID})
	if err != nil {
		return nil, nil, fmt.Errorf("get reviews: %w", err)
	}
	return &products[0], RankByQuality(reviews), nil
}
