// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Thread Safety:
// Config is immutable after Load and safe for concurrent read access.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
	Ingest    IngestConfig    `koanf:"ingest"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// DatabaseConfig holds review store settings.
//
// Environment Variables:
//   - PRESTO_DB_DRIVER: duckdb or sqlite (default: duckdb)
//   - PRESTO_DB_PATH / DUCKDB_PATH: database file, or :memory:
//   - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 2GB)
//   - DUCKDB_THREADS: DuckDB threads, 0 = NumCPU
//   - PRESTO_DB_QUERY_TIMEOUT: per-query timeout (default: 30s)
type DatabaseConfig struct {
	Driver       string        `koanf:"driver"`
	Path         string        `koanf:"path"`
	MaxMemory    string        `koanf:"max_memory"` // DuckDB only
	Threads      int           `koanf:"threads"`    // DuckDB only
	QueryTimeout time.Duration `koanf:"query_timeout"`
	SkipIndexes  bool          `koanf:"skip_indexes"` // Bulk loads create indexes afterwards

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig configures the circuit breaker around store reads.
//
// Environment Variables:
//   - PRESTO_BREAKER_ENABLED (default: true)
//   - PRESTO_BREAKER_FAILURES: consecutive failures before opening (default: 5)
//   - PRESTO_BREAKER_TIMEOUT: time spent open before a probe (default: 30s)
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
	MaxRequests      uint32        `koanf:"max_requests"` // probes allowed while half-open
	Interval         time.Duration `koanf:"interval"`     // closed-state counter reset, 0 = never
	Timeout          time.Duration `koanf:"timeout"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"
}

// APIConfig holds API paging limits for product search and review listings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds rate limiting and CORS settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// RecommendConfig holds recommendation engine defaults and limits.
// Request fields left unset take these values.
//
// Environment Variables:
//   - RECOMMEND_REVIEWER_POOL_SIZE (default: 100)
//   - RECOMMEND_PRODUCT_POOL_SIZE (default: 1000)
//   - RECOMMEND_LIMIT (default: 100), RECOMMEND_MAX_LIMIT (default: 1000)
//   - RECOMMEND_MISSING_RATING (default: 0)
//   - RECOMMEND_MAX_CELLS (default: 10000000000), RECOMMEND_WARN_CELLS (default: 1000000000)
//   - RECOMMEND_TIMEOUT (default: 30s), RECOMMEND_WORKERS (default: 0 = GOMAXPROCS)
//   - RECOMMEND_CACHE_SIZE (default: 256, 0 disables), RECOMMEND_CACHE_TTL (default: 5m)
type RecommendConfig struct {
	ReviewerPoolSize int     `koanf:"reviewer_pool_size"`
	ProductPoolSize  int     `koanf:"product_pool_size"`
	Limit            int     `koanf:"limit"`
	MaxLimit         int     `koanf:"max_limit"`
	MissingRating    float64 `koanf:"missing_rating"`
	ExactMatch       bool    `koanf:"exact_match"`
	FilterUnhelpful  bool    `koanf:"filter_unhelpful"`
	RemoveDuplicates bool    `koanf:"remove_duplicates"`

	MaxCells  int64         `koanf:"max_cells"`
	WarnCells int64         `koanf:"warn_cells"`
	Timeout   time.Duration `koanf:"timeout"`
	Workers   int           `koanf:"workers"`

	// CacheSize bounds the API's cache of recommendation responses.
	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`
}

// IngestConfig holds JSONL import settings.
//
// Environment Variables:
//   - INGEST_BATCH_SIZE: rows per insert transaction (default: 500)
//   - INGEST_PROGRESS_PATH: Badger directory for resumable progress, empty = in memory
//   - INGEST_PROGRESS_INTERVAL: minimum time between progress logs (default: 5s)
//   - INGEST_MAX_LINE_BYTES: longest accepted JSONL line (default: 16MB)
//   - INGEST_PRODUCTS_FILE / INGEST_REVIEWS_FILE: JSONL files the server
//     imports on startup, before indexes are built
type IngestConfig struct {
	BatchSize        int           `koanf:"batch_size"`
	ProgressPath     string        `koanf:"progress_path"`
	ProgressInterval time.Duration `koanf:"progress_interval"`
	MaxLineBytes     int           `koanf:"max_line_bytes"`
	ProductsFile     string        `koanf:"products_file"`
	ReviewsFile      string        `koanf:"reviews_file"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
	// StoreInterval is how often row counts are refreshed; 0 disables.
	StoreInterval time.Duration `koanf:"store_interval"`
}

// Address returns the HTTP listen address.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
