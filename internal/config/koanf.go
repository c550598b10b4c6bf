// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/presto/config.yaml",
	"/etc/presto/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:       "duckdb",
			Path:         "/data/presto.duckdb",
			MaxMemory:    "2GB",
			Threads:      0, // 0 = use runtime.NumCPU()
			QueryTimeout: 30 * time.Second,
			Breaker: BreakerConfig{
				Enabled:          true,
				FailureThreshold: 5,
				MaxRequests:      1,
				Interval:         0,
				Timeout:          30 * time.Second,
			},
		},
		Server: ServerConfig{
			Port:            8750,
			Host:            "0.0.0.0",
			Timeout:         60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     500,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Recommend: RecommendConfig{
			ReviewerPoolSize: 100,
			ProductPoolSize:  1000,
			Limit:            100,
			MaxLimit:         1000,
			MissingRating:    0,
			ExactMatch:       true,
			FilterUnhelpful:  true,
			RemoveDuplicates: true,
			MaxCells:         10_000_000_000,
			WarnCells:        1_000_000_000,
			Timeout:          30 * time.Second,
			Workers:          0,
			CacheSize:        256,
			CacheTTL:         5 * time.Minute,
		},
		Ingest: IngestConfig{
			BatchSize:        500,
			ProgressPath:     "",
			ProgressInterval: 5 * time.Second,
			MaxLineBytes:     16 << 20,
		},
		Metrics: MetricsConfig{
			Enabled:       true,
			Path:          "/metrics",
			StoreInterval: time.Minute,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is LoadWithKoanf with an explicit config file. An empty path
// skips the file layer.
func LoadFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// PRESTO_DB_PATH -> database.path
	// RECOMMEND_LIMIT -> recommend.limit
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Database mappings
	"presto_db_driver":        "database.driver",
	"presto_db_path":          "database.path",
	"duckdb_path":             "database.path",
	"duckdb_max_memory":       "database.max_memory",
	"duckdb_threads":          "database.threads",
	"presto_db_query_timeout": "database.query_timeout",
	"presto_db_skip_indexes":  "database.skip_indexes",

	// Circuit breaker mappings
	"presto_breaker_enabled":      "database.breaker.enabled",
	"presto_breaker_failures":     "database.breaker.failure_threshold",
	"presto_breaker_max_requests": "database.breaker.max_requests",
	"presto_breaker_interval":     "database.breaker.interval",
	"presto_breaker_timeout":      "database.breaker.timeout",

	// Server mappings
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// API mappings
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",

	// Security mappings
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"trusted_proxies":     "security.trusted_proxies",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Recommendation engine mappings
	"recommend_reviewer_pool_size": "recommend.reviewer_pool_size",
	"recommend_product_pool_size":  "recommend.product_pool_size",
	"recommend_limit":              "recommend.limit",
	"recommend_max_limit":          "recommend.max_limit",
	"recommend_missing_rating":     "recommend.missing_rating",
	"recommend_exact_match":        "recommend.exact_match",
	"recommend_filter_unhelpful":   "recommend.filter_unhelpful",
	"recommend_remove_duplicates":  "recommend.remove_duplicates",
	"recommend_max_cells":          "recommend.max_cells",
	"recommend_warn_cells":         "recommend.warn_cells",
	"recommend_timeout":            "recommend.timeout",
	"recommend_workers":            "recommend.workers",
	"recommend_cache_size":         "recommend.cache_size",
	"recommend_cache_ttl":          "recommend.cache_ttl",

	// Ingest mappings
	"ingest_batch_size":        "ingest.batch_size",
	"ingest_progress_path":     "ingest.progress_path",
	"ingest_progress_interval": "ingest.progress_interval",
	"ingest_max_line_bytes":    "ingest.max_line_bytes",
	"ingest_products_file":     "ingest.products_file",
	"ingest_reviews_file":      "ingest.reviews_file",

	// Metrics mappings
	"metrics_enabled":        "metrics.enabled",
	"metrics_path":           "metrics.path",
	"metrics_store_interval": "metrics.store_interval",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - PRESTO_DB_PATH -> database.path
//   - HTTP_PORT -> server.port
//   - RECOMMEND_MAX_CELLS -> recommend.max_cells
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}
