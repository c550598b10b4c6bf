// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/presto/internal/ingest"
)

// Importer is the part of *ingest.Importer the service drives.
type Importer interface {
	Import(ctx context.Context, table ingest.Table, path string) (*ingest.Stats, error)
	IsRunning() bool
	Stop() error
}

// IndexBuilder creates secondary indexes once bulk loading is done.
type IndexBuilder interface {
	CreateIndexes(ctx context.Context) error
}

// IngestJob is one JSONL file bound for one table.
type IngestJob struct {
	Table ingest.Table
	Path  string
}

// IngestService runs startup imports under supervision.
type IngestService struct {
	importer Importer
	jobs     []IngestJob
	indexes  IndexBuilder
	logger   zerolog.Logger
	name     string

	// next is the first job that has not finished; restarts begin here.
	next int
}

// NewIngestService creates the service. indexes may be nil.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewIngestService(importer Importer, jobs []IngestJob, indexes IndexBuilder, logger zerolog.Logger) *IngestService {
	return &IngestService{
		importer: importer,
		jobs:     jobs,
		indexes:  indexes,
		logger:   logger.With().Str("service", "ingest").Logger(),
		name:     "startup-ingest",
	}
}

// Serve imports the remaining jobs in order. It returns
// suture.ErrDoNotRestart once every job and the index build succeeded.
func (s *IngestService) Serve(ctx context.Context) error {
	for s.next < len(s.jobs) {
		job := s.jobs[s.next]
		s.logger.Info().Str("table", string(job.Table)).Str("path", job.Path).Msg("Starting import")

		stats, err := s.importer.Import(ctx, job.Table, job.Path)
		if err != nil {
			if ctx.Err() != nil {
				s.stopImporter()
				return ctx.Err()
			}
			return fmt.Errorf("import %s from %s: %w", job.Table, job.Path, err)
		}

		s.logger.Info().
			Str("table", string(job.Table)).
			Int64("inserted", stats.Inserted).
			Int64("skipped", stats.Skipped).
			Int64("errors", stats.Errors).
			Dur("duration", stats.Duration()).
			Msg("Import completed")
		s.next++
	}

	if s.indexes != nil {
		if err := s.indexes.CreateIndexes(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("create indexes: %w", err)
		}
		s.logger.Info().Msg("Store indexes ready")
	}
	return suture.ErrDoNotRestart
}

func (s *IngestService) stopImporter() {
	if !s.importer.IsRunning() {
		return
	}
	if err := s.importer.Stop(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to stop import")
	}
}

// String identifies the service in supervisor logs.
func (s *IngestService) String() string {
	return s.name
}
