// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

/*
Package config provides centralized configuration management for Presto.

Configuration is layered with Koanf v2: built-in defaults, then an optional
YAML file, then environment variables. The result is validated before it
is returned.

# Configuration File

The file is taken from CONFIG_PATH, or the first of config.yaml,
config.yml, /etc/presto/config.yaml and /etc/presto/config.yml that exists:

	database:
	  driver: duckdb
	  path: /data/presto.duckdb
	recommend:
	  reviewer_pool_size: 100
	  product_pool_size: 1000
	  max_cells: 10000000000
	logging:
	  level: info

# Environment Variables

Only mapped variables are read; unrelated environment is ignored.

Database:
  - PRESTO_DB_DRIVER: duckdb or sqlite (default: duckdb)
  - PRESTO_DB_PATH: database file (default: /data/presto.duckdb)
  - PRESTO_BREAKER_ENABLED, PRESTO_BREAKER_FAILURES, PRESTO_BREAKER_TIMEOUT

Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8750), HTTP_TIMEOUT
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - CORS_ORIGINS: comma-separated list

Recommendations:
  - RECOMMEND_REVIEWER_POOL_SIZE, RECOMMEND_PRODUCT_POOL_SIZE
  - RECOMMEND_LIMIT, RECOMMEND_MAX_LIMIT, RECOMMEND_MISSING_RATING
  - RECOMMEND_MAX_CELLS, RECOMMEND_WARN_CELLS, RECOMMEND_TIMEOUT

Ingest:
  - INGEST_BATCH_SIZE, INGEST_PROGRESS_PATH, INGEST_PROGRESS_INTERVAL

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    return fmt.Errorf("load config: %w", err)
	}
	db, err := database.New(&cfg.Database)
*/
package config
