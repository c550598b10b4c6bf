// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package recommend

import (
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/presto/internal/config"
	"github.com/tomtom215/presto/internal/recommend/similarity"
)

// Config holds engine settings. Request fields left at zero take the
// matching default here.
type Config struct {
	// Defaults apply to requests that leave a field unset.
	Defaults DefaultsConfig `json:"defaults"`

	// Limits bounds the work a single request may cause.
	Limits LimitsConfig `json:"limits"`

	// Workers is the number of goroutines scoring rows. 0 = GOMAXPROCS.
	Workers int `json:"workers"`
}

// DefaultsConfig holds per-request defaults.
type DefaultsConfig struct {
	// ReviewerPoolSize is the number of most active reviewers kept.
	// Default: 100.
	ReviewerPoolSize int `json:"reviewer_pool_size"`

	// ProductPoolSize is the number of most reviewed products kept.
	// Default: 1000.
	ProductPoolSize int `json:"product_pool_size"`

	// Limit is the number of recommendations returned.
	// Default: 100.
	Limit int `json:"limit"`

	// MissingRating is the value unrated cells are read as.
	// Default: 0.
	MissingRating float64 `json:"missing_rating"`

	// ExactMatch requires the normalized field to equal the term.
	// Default: true.
	ExactMatch bool `json:"exact_match"`

	// FilterUnhelpful drops reviews with more downvotes than upvotes.
	// Default: true.
	FilterUnhelpful bool `json:"filter_unhelpful"`

	// RemoveDuplicates collapses duplicate editions.
	// Default: true.
	RemoveDuplicates bool `json:"remove_duplicates"`
}

// LimitsConfig caps request cost.
type LimitsConfig struct {
	// MaxCells is the hard cap on reviewers × products in the rating matrix.
	// Default: 10,000,000,000.
	MaxCells int64 `json:"max_cells"`

	// WarnCells logs a warning above this many cells.
	// Default: 1,000,000,000.
	WarnCells int64 `json:"warn_cells"`

	// MaxLimit caps Request.Limit.
	// Default: 1000.
	MaxLimit int `json:"max_limit"`

	// Timeout bounds one Recommend call. 0 disables it.
	// Default: 30s.
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	size := similarity.DefaultSizeLimit()
	return &Config{
		Defaults: DefaultsConfig{
			ReviewerPoolSize: 100,
			ProductPoolSize:  1000,
			Limit:            100,
			MissingRating:    0,
			ExactMatch:       true,
			FilterUnhelpful:  true,
			RemoveDuplicates: true,
		},
		Limits: LimitsConfig{
			MaxCells:  size.MaxCells,
			WarnCells: size.WarnCells,
			MaxLimit:  1000,
			Timeout:   30 * time.Second,
		},
		Workers: 0,
	}
}

// ConfigFrom builds an engine Config from the loaded application settings.
func ConfigFrom(s config.RecommendConfig) *Config {
	return &Config{
		Defaults: DefaultsConfig{
			ReviewerPoolSize: s.ReviewerPoolSize,
			ProductPoolSize:  s.ProductPoolSize,
			Limit:            s.Limit,
			MissingRating:    s.MissingRating,
			ExactMatch:       s.ExactMatch,
			FilterUnhelpful:  s.FilterUnhelpful,
			RemoveDuplicates: s.RemoveDuplicates,
		},
		Limits: LimitsConfig{
			MaxCells:  s.MaxCells,
			WarnCells: s.WarnCells,
			MaxLimit:  s.MaxLimit,
			Timeout:   s.Timeout,
		},
		Workers: s.Workers,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Defaults.ReviewerPoolSize < 1 {
		return fmt.Errorf("defaults.reviewer_pool_size must be positive, got %d", c.Defaults.ReviewerPoolSize)
	}
	if c.Defaults.ProductPoolSize < 1 {
		return fmt.Errorf("defaults.product_pool_size must be positive, got %d", c.Defaults.ProductPoolSize)
	}
	if c.Defaults.Limit < 1 {
		return fmt.Errorf("defaults.limit must be positive, got %d", c.Defaults.Limit)
	}
	if c.Defaults.MissingRating < 0 || math.IsNaN(c.Defaults.MissingRating) || math.IsInf(c.Defaults.MissingRating, 0) {
		return fmt.Errorf("defaults.missing_rating must be a non-negative number, got %f", c.Defaults.MissingRating)
	}

	if c.Limits.MaxCells < 0 {
		return fmt.Errorf("limits.max_cells must be non-negative, got %d", c.Limits.MaxCells)
	}
	if c.Limits.WarnCells < 0 {
		return fmt.Errorf("limits.warn_cells must be non-negative, got %d", c.Limits.WarnCells)
	}
	if c.Limits.MaxCells > 0 && c.Limits.WarnCells > c.Limits.MaxCells {
		return fmt.Errorf("limits.warn_cells must be <= limits.max_cells, got %d > %d", c.Limits.WarnCells, c.Limits.MaxCells)
	}
	if c.Limits.MaxLimit < c.Defaults.Limit {
		return fmt.Errorf("limits.max_limit must be >= defaults.limit, got %d < %d", c.Limits.MaxLimit, c.Defaults.Limit)
	}
	if c.Limits.Timeout < 0 {
		return fmt.Errorf("limits.timeout must be non-negative, got %v", c.Limits.Timeout)
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// SizeLimit returns the matrix size limits.
func (c *Config) SizeLimit() similarity.SizeLimit {
	return similarity.SizeLimit{
		MaxCells:  c.Limits.MaxCells,
		WarnCells: c.Limits.WarnCells,
	}
}
