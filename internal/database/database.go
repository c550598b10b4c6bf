// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/tomtom215/presto/internal/config"
	"github.com/tomtom215/presto/internal/logging"
)

// Supported drivers. The names are the database/sql driver names.
const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite"
)

const (
	memoryPath          = ":memory:"
	defaultQueryTimeout = 30 * time.Second
)

// DB wraps the review store connection.
type DB struct {
	conn   *sql.DB
	cfg    *config.DatabaseConfig
	driver string
	logger zerolog.Logger
}

// New opens the store described by cfg and creates the schema if needed.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	driver := strings.ToLower(cfg.Driver)
	if driver == "" {
		driver = DriverDuckDB
	}
	if driver != DriverDuckDB && driver != DriverSQLite {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	if cfg.Path != "" && cfg.Path != memoryPath {
		dir := filepath.Dir(cfg.Path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	conn, err := sql.Open(driver, dataSourceName(driver, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:   conn,
		cfg:    cfg,
		driver: driver,
		logger: logging.WithComponent("database").With().Str("driver", driver).Logger(),
	}
	db.configureConnectionPool()

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	db.logger.Info().Str("path", displayPath(cfg.Path)).Msg("Review store opened")
	return db, nil
}

func dataSourceName(driver string, cfg *config.DatabaseConfig) string {
	path := cfg.Path
	if path == "" {
		path = memoryPath
	}

	if driver == DriverSQLite {
		if path == memoryPath {
			return path
		}
		return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	params := []string{
		"access_mode=read_write",
		fmt.Sprintf("threads=%d", threads),
		// Extensions are not needed and auto-loading can hang without network.
		"autoinstall_known_extensions=false",
		"autoload_known_extensions=false",
	}
	if cfg.MaxMemory != "" {
		params = append(params, "max_memory="+cfg.MaxMemory)
	}
	return path + "?" + strings.Join(params, "&")
}

// configureConnectionPool sizes the pool for the driver. SQLite allows a
// single writer and an in-memory SQLite database exists per connection, so
// it gets exactly one.
func (db *DB) configureConnectionPool() {
	if db.driver == DriverSQLite {
		db.conn.SetMaxOpenConns(1)
		db.conn.SetMaxIdleConns(1)
		db.conn.SetConnMaxLifetime(0)
		return
	}
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

func (db *DB) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.createTables(ctx); err != nil {
		return err
	}
	if !db.cfg.SkipIndexes {
		if err := db.CreateIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}

// queryContext applies the configured per-query timeout.
func (db *DB) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := db.cfg.QueryTimeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// Driver returns "duckdb" or "sqlite".
func (db *DB) Driver() string {
	return db.driver
}

// Conn returns the underlying connection pool.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping checks that the store is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Close flushes the DuckDB WAL and closes the pool.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if db.driver == DriverDuckDB && db.cfg.Path != "" && db.cfg.Path != memoryPath {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
			db.logger.Warn().Err(err).Msg("Failed to checkpoint database before close")
		}
		cancel()
	}
	return db.conn.Close()
}

// Counts returns the number of products and reviews stored.
func (db *DB) Counts(ctx context.Context) (products, reviews int64, err error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `SELECT (SELECT COUNT(*) FROM product), (SELECT COUNT(*) FROM review)`)
	if err := row.Scan(&products, &reviews); err != nil {
		return 0, 0, fmt.Errorf("count rows: %w", err)
	}
	return products, reviews, nil
}

func displayPath(path string) string {
	if path == "" {
		return memoryPath
	}
	return path
}
