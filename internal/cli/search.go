// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tomtom215/presto/internal/format"
	"github.com/tomtom215/presto/internal/recommend"
)

func newSearchCmd(opts *options) *cobra.Command {
	var (
		field  string
		exact  bool
		dedupe bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "search <category> <term>",
		Short: "List products matching a term, most reviewed first",
		Example: `  presto search Books hobbit --exact=false
  presto search Music "beatles" --field creator`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEngine(func(e *recommend.Engine) error {
				matches, err := e.FindProducts(commandContext(cmd), recommend.ProductQuery{
					Category:         args[0],
					Term:             args[1],
					Field:            recommend.SearchField(field),
					Exact:            exact,
					RemoveDuplicates: dedupe,
				})
				if err != nil {
					return err
				}
				total := len(matches)
				if limit > 0 && len(matches) > limit {
					matches = matches[:limit]
				}
				if opts.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), matches)
				}

				w := cmd.OutOrStdout()
				if total == 0 {
					_, err := fmt.Fprintln(w, "No products matched.")
					return err
				}
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tREVIEWS\tTITLE\tCREATOR")
				for _, m := range matches {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.ID, format.DescribeInt(m.Reviews), m.Title, m.Creator)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				if total > len(matches) {
					fmt.Fprintf(w, "... %s more\n", format.Describe(total-len(matches)))
				}
				return nil
			})
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&field, "field", string(recommend.SearchTitle), "search field: title or creator")
	fl.BoolVar(&exact, "exact", false, "require the normalized field to equal the term")
	fl.BoolVar(&dedupe, "dedupe", true, "collapse duplicate editions")
	fl.IntVar(&limit, "limit", 20, "maximum rows shown, 0 for all")
	return cmd
}
