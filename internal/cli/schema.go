// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/presto/internal/config"
	"github.com/tomtom215/presto/internal/database"
	"github.com/tomtom215/presto/internal/format"
)

func newSchemaCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the store tables and indexes",
		Long: `Create the product and review tables and their indexes if they do not
exist yet, then print the row counts. Run it after a bulk load made with
PRESTO_DB_SKIP_INDEXES=true.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(cfg *config.Config, db *database.DB) error {
				ctx := commandContext(cmd)
				if err := db.CreateIndexes(ctx); err != nil {
					return err
				}
				products, reviews, err := db.Counts(ctx)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
						"driver":   db.Driver(),
						"products": products,
						"reviews":  reviews,
					})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s store ready: %s products, %s reviews\n",
					db.Driver(), format.DescribeInt(products), format.DescribeInt(reviews))
				return nil
			})
		},
	}
}
