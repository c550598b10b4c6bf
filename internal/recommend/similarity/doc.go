// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

// Package similarity builds sparse product×user rating matrices and ranks
// products by the cosine similarity of their rating vectors.
//
// # Rating Matrix
//
// Rows are products, columns are users, cells hold ratings. A missing
// cell means "no rating", not zero. For the similarity metric a missing
// cell is read as the matrix fill value (0 by default). The fill is never
// materialized: dot products and norms are computed from the stored
// ratings plus closed-form fill terms, so memory stays proportional to
// the number of ratings.
//
// # Scores
//
// Similarity is 1 minus the cosine distance, clamped to [0, 1]. Identical
// rating patterns score 1, orthogonal ones 0. A row whose vector is all
// zeros (possible with fill 0 and only zero ratings) scores 0 against
// every other row. The diagonal is always 1.
//
// # Size Guard
//
// CheckSize rejects matrices whose dense shape (users × products) exceeds
// SizeLimit.MaxCells with ErrIntractableComputation before anything is
// allocated, and flags shapes above SizeLimit.WarnCells.
//
// # Concurrency
//
// Pairwise and SimilarTo split rows into blocks evaluated by an errgroup
// limited to the requested worker count. Results do not depend on the
// worker count. A Matrix is immutable after NewMatrix and safe for
// concurrent readers.
package similarity
