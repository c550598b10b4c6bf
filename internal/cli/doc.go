// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

/*
Package cli implements the presto command line tool.

	presto ingest products books.jsonl
	presto ingest reviews book_reviews.jsonl --progress-dir progress/
	presto schema
	presto search Books hobbit
	presto recommend Books "the hobbit" --limit 10
	presto reviews 0261103342

Every command reads the same configuration as the server (defaults, YAML
file, environment); --driver, --db and --log-level override it. Logs go
to stderr in console format and results to stdout, as tables or, with
--json, as JSON.
*/
package cli
