// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package similarity

import (
	"context"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// blockSize is the number of rows handed to one worker at a time.
const blockSize = 64

// Score is the similarity of one product to a target product.
type Score struct {
	ProductID  string  `json:"product_id"`
	Similarity float64 `json:"similarity"`
}

// SimilarityMatrix is a dense symmetric product×product similarity table.
type SimilarityMatrix struct {
	IDs    []string
	Values [][]float64
	index  map[string]int
}

// At returns the similarity of products a and b.
func (s *SimilarityMatrix) At(a, b string) (float64, bool) {
	i, ok := s.index[a]
	if !ok {
		return 0, false
	}
	j, ok := s.index[b]
	if !ok {
		return 0, false
	}
	return s.Values[i][j], true
}

// Pairwise computes the similarity of every pair of rows. Only the upper
// triangle is evaluated; the lower triangle mirrors it so the result is
// exactly symmetric.
func (m *Matrix) Pairwise(ctx context.Context, workers int) (*SimilarityMatrix, error) {
	n := len(m.rows)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
	}

	err := forEachBlock(ctx, n, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			values[i][i] = 1
			for j := i + 1; j < n; j++ {
				values[i][j] = m.cosine(i, j)
			}
		}
	})
	if err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			values[i][j] = values[j][i]
		}
	}

	index := make(map[string]int, n)
	for i, id := range m.products {
		index[id] = i
	}

	return &SimilarityMatrix{
		IDs:    m.Products(),
		Values: values,
		index:  index,
	}, nil
}

// SimilarTo scores every other product against productID, highest first.
// Ties are ordered by product id. The target itself is not included.
func (m *Matrix) SimilarTo(ctx context.Context, productID string, workers int) ([]Score, error) {
	target, ok := m.index[productID]
	if !ok {
		return nil, ErrUnknownProduct
	}

	n := len(m.rows)
	sims := make([]float64, n)
	err := forEachBlock(ctx, n, workers, func(lo, hi int) {
		for j := lo; j < hi; j++ {
			if j == target {
				continue
			}
			// Same argument order as Pairwise so both agree bit for bit.
			if target < j {
				sims[j] = m.cosine(target, j)
			} else {
				sims[j] = m.cosine(j, target)
			}
		}
	})
	if err != nil {
		return nil, err
	}

	scores := make([]Score, 0, n-1)
	for j, id := range m.products {
		if j == target {
			continue
		}
		scores = append(scores, Score{ProductID: id, Similarity: sims[j]})
	}
	SortScores(scores)
	return scores, nil
}

// SortScores orders scores by similarity descending, then product id.
func SortScores(scores []Score) {
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Similarity != scores[j].Similarity {
			return scores[i].Similarity > scores[j].Similarity
		}
		return scores[i].ProductID < scores[j].ProductID
	})
}

// cosine returns the clamped cosine similarity of rows i and j with
// unrated cells read as m.fill.
//
// With A and B the rated columns of each row, n users and fill f:
//
//	dot   = Σ(A∩B) a·b + f·Σ(A\B) a + f·Σ(B\A) b + f²·|neither|
//	|a|²  = Σ(A) a² + f²·(n-|A|)
func (m *Matrix) cosine(i, j int) float64 {
	if i == j {
		return 1
	}
	a, b := &m.rows[i], &m.rows[j]

	var dot, sharedA, sharedB float64
	shared := 0
	for x, y := 0, 0; x < len(a.cols) && y < len(b.cols); {
		switch {
		case a.cols[x] < b.cols[y]:
			x++
		case a.cols[x] > b.cols[y]:
			y++
		default:
			dot += a.vals[x] * b.vals[y]
			sharedA += a.vals[x]
			sharedB += b.vals[y]
			shared++
			x++
			y++
		}
	}

	f := m.fill
	n := float64(len(m.users))
	normA := a.sumSq
	normB := b.sumSq
	if f != 0 {
		neither := n - float64(len(a.cols)) - float64(len(b.cols)) + float64(shared)
		dot += f*(a.sum-sharedA) + f*(b.sum-sharedB) + f*f*neither
		normA += f * f * (n - float64(len(a.cols)))
		normB += f * f * (n - float64(len(b.cols)))
	}

	denom := math.Sqrt(normA * normB)
	if denom == 0 || math.IsNaN(denom) {
		return 0
	}
	return clamp01(dot / denom)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// forEachBlock runs fn over [0, n) in blocks of blockSize rows with at
// most workers blocks in flight. It stops scheduling once ctx is done.
func forEachBlock(ctx context.Context, n, workers int, fn func(lo, hi int)) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += blockSize {
		if gctx.Err() != nil {
			break
		}
		hi := min(lo+blockSize, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(lo, hi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
