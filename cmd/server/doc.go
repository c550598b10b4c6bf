// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

/*
Package main is the Presto HTTP server.

Presto recommends products from a review graph: it finds the products
matching a search term, expands to the people who reviewed them and the
other products those people reviewed, and ranks candidates by cosine
similarity of their rating vectors.

# Application Architecture

	RootSupervisor ("presto")
	├── DataSupervisor ("data-layer")
	│   ├── IngestService (optional startup import)
	│   └── StoreStatsService (row count gauges)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Startup order:

 1. Configuration: koanf defaults, optional YAML file, environment
 2. Logging: zerolog, JSON or console
 3. Store: DuckDB (default) or SQLite, optionally behind a circuit breaker
 4. Engine: recommendation engine over the store
 5. Supervisor tree with the services above
 6. HTTP server: chi router with rate limiting and Prometheus metrics

# Configuration

The most common settings:

	PRESTO_DB_DRIVER=duckdb|sqlite
	PRESTO_DB_PATH=/data/presto.duckdb
	HTTP_PORT=8080
	LOG_LEVEL=info
	RECOMMEND_REVIEWER_POOL_SIZE=100
	RECOMMEND_PRODUCT_POOL_SIZE=1000
	INGEST_PRODUCTS_FILE=/data/products.jsonl
	INGEST_REVIEWS_FILE=/data/reviews.jsonl
	INGEST_PROGRESS_PATH=/data/progress

CONFIG_PATH points at a YAML file with the same keys; environment
variables win over the file.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for SHUTDOWN_TIMEOUT, a running import stops after its
current batch and keeps its checkpoint, and the store is closed last.

See cmd/presto for the command line client that runs the same pipeline
without a server.
*/
package main
