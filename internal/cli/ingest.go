// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/presto/internal/config"
	"github.com/tomtom215/presto/internal/database"
	"github.com/tomtom215/presto/internal/format"
	"github.com/tomtom215/presto/internal/ingest"
	"github.com/tomtom215/presto/internal/logging"
)

func newIngestCmd(opts *options) *cobra.Command {
	var (
		fresh       bool
		batchSize   int
		progressDir string
	)

	cmd := &cobra.Command{
		Use:   "ingest <products|reviews> <file.jsonl>",
		Short: "Load a JSONL export into the store",
		Long: `Load a JSONL file of products or reviews. Rows whose id already exists are
skipped, so a file can be loaded again safely.

With --progress-dir (or INGEST_PROGRESS_PATH) an interrupted load resumes
after the last committed batch the next time the same file is ingested.`,
		Example: `  presto ingest products data/books.jsonl
  presto ingest reviews data/book_reviews.jsonl --progress-dir data/progress
  presto ingest reviews data/book_reviews.jsonl --fresh`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := ingest.ParseTable(args[0])
			if err != nil {
				return err
			}
			path := args[1]

			return opts.withStore(func(cfg *config.Config, db *database.DB) error {
				if cmd.Flags().Changed("batch-size") {
					cfg.Ingest.BatchSize = batchSize
				}
				if progressDir != "" {
					cfg.Ingest.ProgressPath = progressDir
				}
				return runIngest(cmd, cfg, db, table, path, fresh, opts.jsonOutput)
			})
		},
	}

	fl := cmd.Flags()
	fl.BoolVar(&fresh, "fresh", false, "ignore a saved checkpoint and start from the beginning")
	fl.IntVar(&batchSize, "batch-size", 500, "rows per insert transaction")
	fl.StringVar(&progressDir, "progress-dir", "", "directory for resumable progress")
	return cmd
}

func runIngest(cmd *cobra.Command, cfg *config.Config, db *database.DB, table ingest.Table, path string, fresh, jsonOutput bool) (err error) {
	progress, closeProgress, err := ingest.OpenProgress(cfg.Ingest.ProgressPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeProgress(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if fresh {
		source, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		if err := progress.Clear(ctx, table, source); err != nil {
			return fmt.Errorf("clear checkpoint: %w", err)
		}
	}

	importer := ingest.NewImporter(&cfg.Ingest, db, progress, logging.WithComponent("ingest"))
	stats, err := importer.Import(ctx, table, path)

	w := cmd.OutOrStdout()
	switch {
	case stats == nil:
	case jsonOutput && err == nil:
		return writeJSON(w, stats.ToSummary(false))
	default:
		printStats(w, stats)
	}
	if err != nil {
		if errors.Is(err, ingest.ErrStopped) || ctx.Err() != nil {
			fmt.Fprintln(w, "Interrupted; run the same command again to resume.")
		}
		return err
	}
	return nil
}

func printStats(w io.Writer, s *ingest.Stats) {
	fmt.Fprintf(w, "%s from %s\n", s.Table, s.Source)
	if s.Resumed {
		fmt.Fprintln(w, "  resumed from checkpoint")
	}
	fmt.Fprintf(w, "  lines:     %s (%s of file)\n", format.DescribeInt(s.Lines), format.ToPercent(s.Progress()/100))
	fmt.Fprintf(w, "  inserted:  %s\n", format.DescribeInt(s.Inserted))
	fmt.Fprintf(w, "  skipped:   %s\n", format.DescribeInt(s.Skipped))
	fmt.Fprintf(w, "  errors:    %s\n", format.DescribeInt(s.Errors))
	fmt.Fprintf(w, "  took:      %s (%s rows/s)\n", s.Duration().Round(time.Millisecond), format.DescribeFloat(s.RecordsPerSecond()))
}
