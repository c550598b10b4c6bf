// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

/*
Package main is the entry point for the presto command line tool.

Usage:

	presto [command]

Available Commands:

	ingest      Load a JSONL export into the store
	schema      Create the store tables and indexes
	search      List products matching a term, most reviewed first
	recommend   Recommend products similar to a search match
	reviews     Show a product's reviews, most helpful first
*/
package main

import (
	"fmt"
	"os"

	"github.com/tomtom215/presto/internal/cli"
)

// Set via ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	root := cli.NewRootCmd(fmt.Sprintf("%s (commit: %s)", version, commit))
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
