// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package recommend

import "context"

// Store is the read-only review dataset the pipeline queries.
// Implementations must bind every value as a query parameter.
type Store interface {
	// FindProducts returns products in q.Category whose q.Field search
	// column equals (q.Exact) or contains q.Term, with their review
	// counts, most reviewed first and ties by id. q.RemoveDuplicates is
	// applied by the caller, not the Store.
	FindProducts(ctx context.Context, q ProductQuery) ([]ProductMatch, error)

	// ReviewsForProducts returns every review of the given products.
	ReviewsForProducts(ctx context.Context, productIDs []string) ([]Review, error)

	// ReviewsByUsers returns every review written by the given users.
	ReviewsByUsers(ctx context.Context, userIDs []string) ([]Review, error)

	// ProductsByIDs returns the products with the given ids in any order.
	// Unknown ids are omitted.
	ProductsByIDs(ctx context.Context, ids []string) ([]Product, error)
}
