// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/presto/internal/config"
	"github.com/tomtom215/presto/internal/metrics"
	"github.com/tomtom215/presto/internal/recommend"
)

const (
	defaultBatchSize        = 500
	defaultProgressInterval = 5 * time.Second
)

var (
	// ErrRunning is returned when Import is called during another import.
	ErrRunning = errors.New("ingest already in progress")

	// ErrStopped is returned by an import cancelled through Stop.
	ErrStopped = errors.New("ingest stopped")

	// ErrNotRunning is returned by Stop when there is nothing to stop.
	ErrNotRunning = errors.New("no ingest in progress")
)

// Sink receives mapped rows. Both methods return the number of rows
// actually written; rows with existing ids are skipped, not errors.
type Sink interface {
	InsertProducts(ctx context.Context, products []recommend.Product) (int, error)
	InsertReviews(ctx context.Context, reviews []recommend.Review) (int, error)
}

// Importer loads JSONL files into a Sink in batches. Progress is saved
// after every committed batch so an interrupted run resumes where it
// stopped.
type Importer struct {
	cfg       *config.IngestConfig
	sink      Sink
	progress  ProgressTracker
	logger    zerolog.Logger
	transform Transform

	mu      sync.RWMutex
	running bool
	stopped bool
	stats   *Stats
	cancel  context.CancelFunc
}

// NewImporter creates an importer. progress may be nil to disable resume.
func NewImporter(cfg *config.IngestConfig, sink Sink, progress ProgressTracker, logger zerolog.Logger) *Importer {
	return &Importer{
		cfg:      cfg,
		sink:     sink,
		progress: progress,
		logger:   logger.With().Str("component", "ingest").Logger(),
	}
}

// SetTransform installs a hook applied to every record before mapping.
func (i *Importer) SetTransform(t Transform) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.transform = t
}

// run is the per-import state.
type run struct {
	table     Table
	stats     Stats
	products  []recommend.Product
	reviews   []recommend.Review
	batchErrs int
	checked   bool
	logEvery  *rate.Sometimes
}

func (r *run) pending() int {
	return len(r.products) + len(r.reviews)
}

// Import reads path and inserts its records into table. A saved
// checkpoint for the same table and file is resumed; it is cleared once
// the file has been read to the end.
func (i *Importer) Import(ctx context.Context, table Table, path string) (stats *Stats, err error) {
	if table.RequiredColumns() == nil {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	source, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return nil, ErrRunning
	}
	i.running = true
	i.stopped = false
	i.cancel = cancel
	i.stats = &Stats{RunID: uuid.NewString(), Source: source, Table: table, StartTime: time.Now()}
	transform := i.transform
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.running = false
		i.cancel = nil
		i.stats.EndTime = time.Now()
		if stats != nil {
			stats.EndTime = i.stats.EndTime
		}
		i.mu.Unlock()
	}()

	f, err := os.Open(path)
	if err != nil {
		return i.GetStats(), fmt.Errorf("open source: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			i.logger.Warn().Err(closeErr).Msg("Error closing ingest source")
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return i.GetStats(), fmt.Errorf("stat source: %w", err)
	}

	r := &run{table: table, stats: *i.GetStats()}
	r.stats.TotalBytes = info.Size()
	interval := i.cfg.ProgressInterval
	if interval <= 0 {
		interval = defaultProgressInterval
	}
	r.logEvery = &rate.Sometimes{Interval: interval}

	i.resume(ctx, r)
	if r.stats.Offset > 0 {
		if _, err := f.Seek(r.stats.Offset, io.SeekStart); err != nil {
			return i.GetStats(), fmt.Errorf("seek to checkpoint: %w", err)
		}
	}
	i.publish(r)

	i.logger.Info().
		Str("table", string(table)).
		Str("source", source).
		Int64("bytes", r.stats.TotalBytes).
		Int64("offset", r.stats.Offset).
		Bool("resumed", r.stats.Resumed).
		Msg("Starting ingest")

	if err := i.readAll(ctx, r, f, transform); err != nil {
		if i.isStopped() {
			err = ErrStopped
		}
		return i.GetStats(), err
	}

	if i.progress != nil {
		if err := i.progress.Clear(ctx, table, source); err != nil {
			i.logger.Warn().Err(err).Msg("Failed to clear ingest progress")
		}
	}

	stats = i.GetStats()
	i.logger.Info().
		Str("table", string(table)).
		Int64("lines", stats.Lines).
		Int64("inserted", stats.Inserted).
		Int64("skipped", stats.Skipped).
		Int64("errors", stats.Errors).
		Dur("duration", stats.Duration()).
		Msg("Ingest completed")
	return stats, nil
}

// resume loads a checkpoint into r when one matches the source and still
// lies inside the file.
func (i *Importer) resume(ctx context.Context, r *run) {
	if i.progress == nil {
		return
	}
	prev, err := i.progress.Load(ctx, r.table, r.stats.Source)
	if err != nil {
		i.logger.Warn().Err(err).Msg("Failed to load ingest progress, starting over")
		return
	}
	if prev == nil || prev.Offset <= 0 {
		return
	}
	if prev.Offset > r.stats.TotalBytes {
		i.logger.Warn().
			Int64("offset", prev.Offset).
			Int64("bytes", r.stats.TotalBytes).
			Msg("Checkpoint is past the end of the source, starting over")
		return
	}
	r.stats.Offset = prev.Offset
	r.stats.Lines = prev.Lines
	r.stats.Processed = prev.Processed
	r.stats.Inserted = prev.Inserted
	r.stats.Skipped = prev.Skipped
	r.stats.Errors = prev.Errors
	r.stats.Resumed = true
}

func (i *Importer) readAll(ctx context.Context, r *run, src io.Reader, transform Transform) error {
	batchSize := i.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	lines := newLineReader(src, r.stats.Offset, i.cfg.MaxLineBytes)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, ok := lines.Next()
		if !ok {
			break
		}
		r.stats.Lines++

		if err := i.handleLine(r, line, transform); err != nil {
			return err
		}

		if r.pending() >= batchSize {
			if err := i.flush(ctx, r, lines.Offset()); err != nil {
				return err
			}
		}
	}
	if err := lines.Err(); err != nil {
		return err
	}
	return i.flush(ctx, r, lines.Offset())
}

// handleLine maps one line into the pending batch. Only a schema mismatch
// on the first record is returned; other bad lines are counted and skipped.
func (i *Importer) handleLine(r *run, line []byte, transform Transform) error {
	if len(bytes.TrimSpace(line)) == 0 {
		return nil
	}

	rec, err := DecodeRecord(line)
	if err != nil {
		i.lineError(r, err)
		return nil
	}
	if transform != nil {
		if rec, err = transform(rec); err != nil {
			i.lineError(r, fmt.Errorf("transform: %w", err))
			return nil
		}
		if rec == nil {
			r.stats.Skipped++
			return nil
		}
	}

	if !r.checked {
		if err := rec.CheckColumns(r.table); err != nil {
			return err
		}
		r.checked = true
	}

	switch r.table {
	case TableProducts:
		p, err := rec.ToProduct()
		if err != nil {
			i.lineError(r, err)
			return nil
		}
		r.products = append(r.products, p)
	case TableReviews:
		rev, err := rec.ToReview()
		if err != nil {
			i.lineError(r, err)
			return nil
		}
		r.reviews = append(r.reviews, rev)
	}
	return nil
}

func (i *Importer) lineError(r *run, err error) {
	r.stats.Errors++
	r.batchErrs++
	i.logger.Debug().Err(err).Int64("line", r.stats.Lines).Msg("Skipping ingest line")
}

// flush writes the pending batch and checkpoints offset.
func (i *Importer) flush(ctx context.Context, r *run, offset int64) error {
	size := r.pending()
	start := time.Now()

	var (
		inserted int
		err      error
	)
	switch {
	case len(r.products) > 0:
		inserted, err = i.sink.InsertProducts(ctx, r.products)
	case len(r.reviews) > 0:
		inserted, err = i.sink.InsertReviews(ctx, r.reviews)
	}
	if err != nil {
		return fmt.Errorf("insert batch at line %d: %w", r.stats.Lines, err)
	}

	skipped := size - inserted
	metrics.RecordIngestBatch(string(r.table), inserted, skipped, r.batchErrs, time.Since(start))

	r.products = r.products[:0]
	r.reviews = r.reviews[:0]
	r.batchErrs = 0
	r.stats.Processed += int64(size)
	r.stats.Inserted += int64(inserted)
	r.stats.Skipped += int64(skipped)
	r.stats.Offset = offset
	i.publish(r)

	if i.progress != nil {
		if err := i.progress.Save(ctx, &r.stats); err != nil {
			i.logger.Warn().Err(err).Msg("Failed to save ingest progress")
		}
	}

	r.logEvery.Do(func() {
		i.logger.Info().
			Str("table", string(r.table)).
			Float64("progress_percent", r.stats.Progress()).
			Int64("lines", r.stats.Lines).
			Int64("inserted", r.stats.Inserted).
			Int64("skipped", r.stats.Skipped).
			Int64("errors", r.stats.Errors).
			Float64("records_per_second", r.stats.RecordsPerSecond()).
			Msg("Ingest progress")
	})
	return nil
}

// publish copies the run's stats to where GetStats can see them.
func (i *Importer) publish(r *run) {
	i.mu.Lock()
	defer i.mu.Unlock()
	*i.stats = r.stats
}

// Stop cancels the running import. The import returns ErrStopped and
// keeps its last checkpoint.
func (i *Importer) Stop() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.running {
		return ErrNotRunning
	}
	i.stopped = true
	i.cancel()
	return nil
}

func (i *Importer) isStopped() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.stopped
}

// GetStats returns a copy of the current or last run's statistics.
func (i *Importer) GetStats() *Stats {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.stats == nil {
		return &Stats{}
	}
	stats := *i.stats
	return &stats
}

// IsRunning reports whether an import is in progress.
func (i *Importer) IsRunning() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.running
}
