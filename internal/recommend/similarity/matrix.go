// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package similarity

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidFill is returned for a NaN or infinite fill value.
var ErrInvalidFill = errors.New("fill value must be finite")

// ErrUnknownProduct is returned when a product has no row in the matrix.
var ErrUnknownProduct = errors.New("product not in rating matrix")

// Rating is one (product, user) cell.
type Rating struct {
	ProductID string
	UserID    string
	Value     float64
}

// row is a sparse product vector: cols are user indexes in ascending order.
type row struct {
	cols  []int
	vals  []float64
	sum   float64
	sumSq float64
}

// Matrix is a sparse product×user rating matrix.
type Matrix struct {
	products []string
	index    map[string]int
	users    []string
	rows     []row
	fill     float64
}

// NewMatrix pivots ratings into a Matrix after checking its dense shape
// against limit. Rows are ordered by product id and columns by user id.
// When a user rated the same product more than once the highest rating
// is kept. NaN ratings are ignored.
func NewMatrix(ratings []Rating, fill float64, limit SizeLimit) (*Matrix, error) {
	if math.IsNaN(fill) || math.IsInf(fill, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFill, fill)
	}

	users, products := Shape(ratings)
	if _, err := CheckSize(users, products, limit); err != nil {
		return nil, err
	}

	productIDs := make([]string, 0, products)
	userIDs := make([]string, 0, users)
	seenProducts := make(map[string]struct{}, products)
	seenUsers := make(map[string]struct{}, users)
	for _, r := range ratings {
		if _, ok := seenProducts[r.ProductID]; !ok {
			seenProducts[r.ProductID] = struct{}{}
			productIDs = append(productIDs, r.ProductID)
		}
		if _, ok := seenUsers[r.UserID]; !ok {
			seenUsers[r.UserID] = struct{}{}
			userIDs = append(userIDs, r.UserID)
		}
	}
	sort.Strings(productIDs)
	sort.Strings(userIDs)

	productIndex := make(map[string]int, len(productIDs))
	for i, id := range productIDs {
		productIndex[id] = i
	}
	userIndex := make(map[string]int, len(userIDs))
	for i, id := range userIDs {
		userIndex[id] = i
	}

	cells := make([]map[int]float64, len(productIDs))
	for _, r := range ratings {
		if math.IsNaN(r.Value) {
			continue
		}
		p := productIndex[r.ProductID]
		u := userIndex[r.UserID]
		if cells[p] == nil {
			cells[p] = make(map[int]float64)
		}
		if prev, ok := cells[p][u]; !ok || r.Value > prev {
			cells[p][u] = r.Value
		}
	}

	rows := make([]row, len(productIDs))
	for p, userRatings := range cells {
		rows[p] = newRow(userRatings)
	}

	return &Matrix{
		products: productIDs,
		index:    productIndex,
		users:    userIDs,
		rows:     rows,
		fill:     fill,
	}, nil
}

func newRow(userRatings map[int]float64) row {
	r := row{
		cols: make([]int, 0, len(userRatings)),
		vals: make([]float64, 0, len(userRatings)),
	}
	for u := range userRatings {
		r.cols = append(r.cols, u)
	}
	sort.Ints(r.cols)
	for _, u := range r.cols {
		v := userRatings[u]
		r.vals = append(r.vals, v)
		r.sum += v
		r.sumSq += v * v
	}
	return r
}

// Products returns the row product ids in row order.
func (m *Matrix) Products() []string {
	out := make([]string, len(m.products))
	copy(out, m.products)
	return out
}

// Users returns the number of user columns.
func (m *Matrix) Users() int {
	return len(m.users)
}

// Len returns the number of product rows.
func (m *Matrix) Len() int {
	return len(m.products)
}

// Fill returns the value unrated cells are read as.
func (m *Matrix) Fill() float64 {
	return m.fill
}

// Stored returns the number of explicit ratings held.
func (m *Matrix) Stored() int {
	n := 0
	for i := range m.rows {
		n += len(m.rows[i].cols)
	}
	return n
}

// Rating returns the stored rating of productID by userID.
// ok is false when the cell is unrated.
func (m *Matrix) Rating(productID, userID string) (value float64, ok bool) {
	p, found := m.index[productID]
	if !found {
		return 0, false
	}
	u := sort.SearchStrings(m.users, userID)
	if u == len(m.users) || m.users[u] != userID {
		return 0, false
	}
	r := &m.rows[p]
	i := sort.SearchInts(r.cols, u)
	if i == len(r.cols) || r.cols[i] != u {
		return 0, false
	}
	return r.vals[i], true
}
