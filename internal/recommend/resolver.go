// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package recommend

import (
	"context"
	"fmt"

	"github.com/tomtom215/presto/internal/textnorm"
)

// FindProducts resolves a category and free-text term into matching
// products, most reviewed first. The term is normalized before it reaches
// the Store. A term that normalizes to nothing matches nothing.
func (e *Engine) FindProducts(ctx context.Context, q ProductQuery) ([]ProductMatch, error) {
	if _, err := q.Field.Column(); err != nil {
		return nil, err
	}

	q.Term = textnorm.Normalize(q.Term)
	if q.Term == "" {
		e.logger.Debug().Str("category", q.Category).Msg("search term normalized to empty string")
		return []ProductMatch{}, nil
	}

	matches, err := e.store.FindProducts(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	if q.RemoveDuplicates {
		matches = DedupeMatches(matches)
	}
	if matches == nil {
		matches = []ProductMatch{}
	}
	return matches, nil
}

// DedupeMatches keeps the first match of every edition.
func DedupeMatches(matches []ProductMatch) []ProductMatch {
	seen := make(map[EditionKey]struct{}, len(matches))
	out := make([]ProductMatch, 0, len(matches))
	for _, m := range matches {
		key := m.Edition()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}
