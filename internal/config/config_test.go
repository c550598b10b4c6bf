// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package config

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"sqlite driver", func(c *Config) { c.Database.Driver = "sqlite" }, ""},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "PRESTO_DB_DRIVER"},
		{"empty path", func(c *Config) { c.Database.Path = "" }, "PRESTO_DB_PATH"},
		{"negative threads", func(c *Config) { c.Database.Threads = -1 }, "DUCKDB_THREADS"},
		{"breaker zero failures", func(c *Config) { c.Database.Breaker.FailureThreshold = 0 }, "PRESTO_BREAKER_FAILURES"},
		{"disabled breaker skips checks", func(c *Config) {
			c.Database.Breaker.Enabled = false
			c.Database.Breaker.FailureThreshold = 0
		}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"page size", func(c *Config) { c.API.MaxPageSize = 1 }, "API_MAX_PAGE_SIZE"},
		{"rate limit", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit disabled", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"rate window", func(c *Config) { c.Security.RateLimitWindow = time.Millisecond }, "RATE_LIMIT_WINDOW"},
		{"reviewer pool", func(c *Config) { c.Recommend.ReviewerPoolSize = 0 }, "REVIEWER_POOL_SIZE"},
		{"product pool", func(c *Config) { c.Recommend.ProductPoolSize = -1 }, "PRODUCT_POOL_SIZE"},
		{"max limit", func(c *Config) { c.Recommend.MaxLimit = 10 }, "RECOMMEND_MAX_LIMIT"},
		{"NaN rating", func(c *Config) { c.Recommend.MissingRating = math.NaN() }, "MISSING_RATING"},
		{"warn above max", func(c *Config) { c.Recommend.WarnCells = c.Recommend.MaxCells + 1 }, "WARN_CELLS"},
		{"workers", func(c *Config) { c.Recommend.Workers = -1 }, "RECOMMEND_WORKERS"},
		{"cache size", func(c *Config) { c.Recommend.CacheSize = -1 }, "RECOMMEND_CACHE_SIZE"},
		{"cache ttl", func(c *Config) { c.Recommend.CacheTTL = 0 }, "RECOMMEND_CACHE_TTL"},
		{"batch size", func(c *Config) { c.Ingest.BatchSize = 0 }, "INGEST_BATCH_SIZE"},
		{"line size", func(c *Config) { c.Ingest.MaxLineBytes = 10 }, "INGEST_MAX_LINE_BYTES"},
		{"store interval", func(c *Config) { c.Metrics.StoreInterval = -time.Second }, "METRICS_STORE_INTERVAL"},
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"empty log format", func(c *Config) { c.Logging.Format = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ShouldWarnAboutCORS(t *testing.T) {
	tests := []struct {
		env     string
		origins []string
		want    bool
	}{
		{"development", []string{"*"}, false},
		{"production", []string{"*"}, true},
		{"prod", []string{"https://shop.example", "*"}, true},
		{"production", []string{"https://shop.example"}, false},
	}

	for _, tt := range tests {
		cfg := defaultConfig()
		cfg.Server.Environment = tt.env
		cfg.Security.CORSOrigins = tt.origins
		if got := cfg.ShouldWarnAboutCORS(); got != tt.want {
			t.Errorf("ShouldWarnAboutCORS(%s, %v) = %v, want %v", tt.env, tt.origins, got, tt.want)
		}
	}
}

func TestServerConfig_Address(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8750}
	if got := s.Address(); got != "127.0.0.1:8750" {
		t.Errorf("Address() = %q, want 127.0.0.1:8750", got)
	}
}
