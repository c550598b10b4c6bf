// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package config

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateRateLimits(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateIngest(); err != nil {
		return err
	}

	if c.Metrics.StoreInterval < 0 {
		return fmt.Errorf("METRICS_STORE_INTERVAL must be non-negative")
	}

	return c.validateLogging()
}

// validDrivers defines the supported store drivers
var validDrivers = map[string]bool{
	"duckdb": true,
	"sqlite": true,
}

func (c *Config) validateDatabase() error {
	if !validDrivers[c.Database.Driver] {
		return fmt.Errorf("PRESTO_DB_DRIVER must be one of: duckdb, sqlite")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("PRESTO_DB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative")
	}
	if c.Database.QueryTimeout < 0 {
		return fmt.Errorf("PRESTO_DB_QUERY_TIMEOUT must be non-negative")
	}

	b := c.Database.Breaker
	if !b.Enabled {
		return nil
	}
	if b.FailureThreshold < 1 {
		return fmt.Errorf("PRESTO_BREAKER_FAILURES must be at least 1")
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("PRESTO_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("HTTP_TIMEOUT and SHUTDOWN_TIMEOUT must be non-negative")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be >= API_DEFAULT_PAGE_SIZE")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	switch {
	case r.ReviewerPoolSize < 1:
		return fmt.Errorf("RECOMMEND_REVIEWER_POOL_SIZE must be at least 1")
	case r.ProductPoolSize < 1:
		return fmt.Errorf("RECOMMEND_PRODUCT_POOL_SIZE must be at least 1")
	case r.Limit < 1:
		return fmt.Errorf("RECOMMEND_LIMIT must be at least 1")
	case r.MaxLimit < r.Limit:
		return fmt.Errorf("RECOMMEND_MAX_LIMIT must be >= RECOMMEND_LIMIT")
	case r.MissingRating < 0 || math.IsNaN(r.MissingRating) || math.IsInf(r.MissingRating, 0):
		return fmt.Errorf("RECOMMEND_MISSING_RATING must be a non-negative number")
	case r.MaxCells < 0 || r.WarnCells < 0:
		return fmt.Errorf("RECOMMEND_MAX_CELLS and RECOMMEND_WARN_CELLS must be non-negative")
	case r.MaxCells > 0 && r.WarnCells > r.MaxCells:
		return fmt.Errorf("RECOMMEND_WARN_CELLS must be <= RECOMMEND_MAX_CELLS")
	case r.Timeout < 0:
		return fmt.Errorf("RECOMMEND_TIMEOUT must be non-negative")
	case r.Workers < 0:
		return fmt.Errorf("RECOMMEND_WORKERS must be non-negative")
	case r.CacheSize < 0:
		return fmt.Errorf("RECOMMEND_CACHE_SIZE must be non-negative")
	case r.CacheSize > 0 && r.CacheTTL <= 0:
		return fmt.Errorf("RECOMMEND_CACHE_TTL must be positive when the cache is enabled")
	}
	return nil
}

func (c *Config) validateIngest() error {
	if c.Ingest.BatchSize < 1 || c.Ingest.BatchSize > 100000 {
		return fmt.Errorf("INGEST_BATCH_SIZE must be between 1 and 100000")
	}
	if c.Ingest.ProgressInterval < 0 {
		return fmt.Errorf("INGEST_PROGRESS_INTERVAL must be non-negative")
	}
	if c.Ingest.MaxLineBytes < 1024 {
		return fmt.Errorf("INGEST_MAX_LINE_BYTES must be at least 1024")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// ShouldWarnAboutCORS reports a wildcard CORS origin in production.
func (c *Config) ShouldWarnAboutCORS() bool {
	if !c.IsProduction() {
		return false
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}
