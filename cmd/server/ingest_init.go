// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package main

import (
	"github.com/tomtom215/presto/internal/config"
	"github.com/tomtom215/presto/internal/database"
	"github.com/tomtom215/presto/internal/ingest"
	"github.com/tomtom215/presto/internal/logging"
	"github.com/tomtom215/presto/internal/supervisor"
	"github.com/tomtom215/presto/internal/supervisor/services"
)

// ingestJobs lists the configured startup files, products first so
// reviews can reference them.
func ingestJobs(cfg *config.IngestConfig) []services.IngestJob {
	var jobs []services.IngestJob
	if cfg.ProductsFile != "" {
		jobs = append(jobs, services.IngestJob{Table: ingest.TableProducts, Path: cfg.ProductsFile})
	}
	if cfg.ReviewsFile != "" {
		jobs = append(jobs, services.IngestJob{Table: ingest.TableReviews, Path: cfg.ReviewsFile})
	}
	return jobs
}

// initIngest adds the startup import to the data layer when files are
// configured. The returned function closes the progress store.
func initIngest(cfg *config.Config, db *database.DB, tree *supervisor.SupervisorTree) (func() error, error) {
	jobs := ingestJobs(&cfg.Ingest)
	if len(jobs) == 0 {
		logging.Info().Msg("Startup ingest disabled (no INGEST_PRODUCTS_FILE or INGEST_REVIEWS_FILE)")
		return func() error { return nil }, nil
	}

	progress, closeProgress, err := ingest.OpenProgress(cfg.Ingest.ProgressPath)
	if err != nil {
		return nil, err
	}
	if cfg.Ingest.ProgressPath == "" {
		logging.Info().Msg("Ingest progress kept in memory (INGEST_PROGRESS_PATH not set)")
	}

	logger := logging.WithComponent("ingest")
	importer := ingest.NewImporter(&cfg.Ingest, db, progress, logger)

	// Indexes already exist unless the store skipped them for bulk loading.
	var indexes services.IndexBuilder
	if cfg.Database.SkipIndexes {
		indexes = db
	}

	tree.AddDataService(services.NewIngestService(importer, jobs, indexes, logger))
	logging.Info().
		Int("jobs", len(jobs)).
		Int("batch_size", cfg.Ingest.BatchSize).
		Bool("deferred_indexes", indexes != nil).
		Msg("Startup ingest scheduled")

	return closeProgress, nil
}
