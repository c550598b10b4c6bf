// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package similarity

import (
	"errors"
	"fmt"
)

// ErrIntractableComputation is returned when a rating matrix would exceed
// the configured cell limit.
var ErrIntractableComputation = errors.New("intractable similarity computation")

// SizeLimit bounds the dense shape of a rating matrix.
type SizeLimit struct {
	// MaxCells is the hard cap on users × products. Zero disables the cap.
	// Default: 10,000,000,000.
	MaxCells int64

	// WarnCells is the soft threshold above which callers should log.
	// Zero disables the warning.
	// Default: 1,000,000,000.
	WarnCells int64
}

// DefaultSizeLimit returns the production size limits.
func DefaultSizeLimit() SizeLimit {
	return SizeLimit{
		MaxCells:  10_000_000_000,
		WarnCells: 1_000_000_000,
	}
}

// SizeError describes a rejected matrix shape.
type SizeError struct {
	Users    int
	Products int
	Cells    int64
	Limit    int64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("rating matrix of %d users x %d products (%d cells) exceeds limit of %d cells",
		e.Users, e.Products, e.Cells, e.Limit)
}

// Unwrap lets errors.Is match ErrIntractableComputation.
func (e *SizeError) Unwrap() error {
	return ErrIntractableComputation
}

// CheckSize validates a users × products shape against limit.
// It returns warn=true when the shape is above the soft threshold and a
// *SizeError when it is above the hard cap.
func CheckSize(users, products int, limit SizeLimit) (warn bool, err error) {
	cells := int64(users) * int64(products)

	if limit.MaxCells > 0 && cells > limit.MaxCells {
		return true, &SizeError{
			Users:    users,
			Products: products,
			Cells:    cells,
			Limit:    limit.MaxCells,
		}
	}

	if limit.WarnCells > 0 && cells > limit.WarnCells {
		return true, nil
	}
	return false, nil
}

// Shape counts the distinct users and products referenced by ratings.
func Shape(ratings []Rating) (users, products int) {
	userSet := make(map[string]struct{})
	productSet := make(map[string]struct{})
	for _, r := range ratings {
		userSet[r.UserID] = struct{}{}
		productSet[r.ProductID] = struct{}{}
	}
	return len(userSet), len(productSet)
}
