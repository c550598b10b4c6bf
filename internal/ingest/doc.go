// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

/*
Package ingest loads product and review JSONL dumps into the review store.

Each line is one JSON object. The first record of a run must carry the
table's required columns or the import fails with a *SchemaError; later
lines that cannot be decoded or mapped are counted in Stats.Errors and
skipped. Rows are written in batches through a Sink, and the byte offset
after every committed batch is saved through a ProgressTracker so an
interrupted import resumes where it stopped.

Source fields may hold arrays or Python-style list literals such as
"['Tolkien']"; Value.Single flattens those to plain text.

Example:

	progress, bdb, err := ingest.OpenBadgerProgress(cfg.Ingest.ProgressPath)
	if err != nil {
		return err
	}
	defer bdb.Close()

	imp := ingest.NewImporter(&cfg.Ingest, db, progress, logging.Logger())
	stats, err := imp.Import(ctx, ingest.TableReviews, "reviews.jsonl")
*/
package ingest
