// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package recommend

import (
	"context"
	"fmt"
	"sort"
)

// ExpandOptions controls RelatedReviews.
type ExpandOptions struct {
	// FilterUnhelpful applies FilterHelpful to the seed and the expansion.
	FilterUnhelpful bool

	// MaxReviewers keeps the most active reviewers. <= 0 is unbounded.
	MaxReviewers int

	// MaxProducts keeps the most reviewed products among the kept
	// reviewers' reviews. <= 0 is unbounded.
	MaxProducts int
}

// RelatedReviews returns every review written by the reviewers of seed,
// bounded by BoundPool. Seeds without any identified reviewer produce an
// empty result without querying the Store.
func (e *Engine) RelatedReviews(ctx context.Context, seed []Review, opts ExpandOptions) ([]Review, error) {
	if opts.FilterUnhelpful {
		seed = FilterHelpful(seed)
	}

	users := ReviewerIDs(seed)
	if len(users) == 0 {
		return []Review{}, nil
	}

	related, err := e.store.ReviewsByUsers(ctx, users)
	if err != nil {
		return nil, fmt.Errorf("get related reviews: %w", err)
	}
	fetched := len(related)

	if opts.FilterUnhelpful {
		related = FilterHelpful(related)
	}
	bounded := BoundPool(related, opts.MaxReviewers, opts.MaxProducts)

	e.logger.Debug().
		Int("seed_reviewers", len(users)).
		Int("fetched", fetched).
		Int("helpful", len(related)).
		Int("bounded", len(bounded)).
		Msg("expanded review graph")

	return bounded, nil
}

// FilterHelpful keeps reviews with at least as many upvotes as downvotes.
func FilterHelpful(reviews []Review) []Review {
	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if r.Helpful() {
			out = append(out, r)
		}
	}
	return out
}

// ReviewerIDs returns the distinct non-null reviewer ids in first-seen order.
func ReviewerIDs(reviews []Review) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, r := range reviews {
		user, ok := r.User()
		if !ok {
			continue
		}
		if _, dup := seen[user]; dup {
			continue
		}
		seen[user] = struct{}{}
		ids = append(ids, user)
	}
	return ids
}

// BoundPool limits a review set to its most active reviewers and then to
// the most reviewed products among what remains.
//
// The product bound is computed on the reviewer-bounded set, not on the
// input. Ranking is by review count, ties by id. Anonymous reviews are
// dropped by the reviewer bound. Kept reviews stay in input order.
func BoundPool(reviews []Review, maxReviewers, maxProducts int) []Review {
	out := reviews

	if maxReviewers > 0 {
		counts := make(map[string]int)
		for _, r := range out {
			if user, ok := r.User(); ok {
				counts[user]++
			}
		}
		keep := topKeys(counts, maxReviewers)
		out = filterReviews(out, func(r Review) bool {
			user, ok := r.User()
			if !ok {
				return false
			}
			_, kept := keep[user]
			return kept
		})
	}

	if maxProducts > 0 {
		counts := make(map[string]int)
		for _, r := range out {
			counts[r.ProductID]++
		}
		keep := topKeys(counts, maxProducts)
		out = filterReviews(out, func(r Review) bool {
			_, kept := keep[r.ProductID]
			return kept
		})
	}

	if maxReviewers <= 0 && maxProducts <= 0 {
		out = append([]Review(nil), reviews...)
	}
	return out
}

func filterReviews(reviews []Review, keep func(Review) bool) []Review {
	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// topKeys returns the k keys with the highest counts, ties by key.
func topKeys(counts map[string]int, k int) map[string]struct{} {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > k {
		keys = keys[:k]
	}

	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		set[key] = struct{}{}
	}
	return set
}
