// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

// Package recommend turns a product search into similarity-ranked
// product recommendations drawn from the review graph.
//
// # Pipeline
//
// One Engine.Recommend call runs these stages and returns every
// intermediate artifact in a Result so callers can inspect them:
//
//  1. Resolve: FindProducts matches category + normalized search term,
//     most reviewed first, duplicate editions collapsed.
//  2. Seed: reviews of the top match, optionally filtered to helpful ones.
//  3. Expand: RelatedReviews fetches every review written by the seed
//     reviewers and bounds the pool (top reviewers, then top products
//     among their reviews).
//  4. Score: a sparse product×user rating matrix is built from the
//     bounded pool and every product is scored against the match with
//     cosine similarity (package similarity).
//  5. Present: scores are joined with product details, duplicate
//     editions are collapsed and the list is truncated.
//
// An empty stage short-circuits the rest and yields empty collections,
// never an error. A matrix above the size limit fails the call with
// similarity.ErrIntractableComputation.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), db, logger)
//	if err != nil {
//	    return err
//	}
//	result, err := engine.Recommend(ctx, recommend.Request{
//	    Category:   "game",
//	    SearchTerm: "Chess",
//	})
//
// # Thread Safety
//
// The Engine holds no per-request state and is safe for concurrent use.
// The Store is only read.
package recommend
