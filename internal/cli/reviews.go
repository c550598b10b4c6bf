// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tomtom215/presto/internal/format"
	"github.com/tomtom215/presto/internal/recommend"
)

func newReviewsCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "reviews <product id>",
		Short: "Show a product's reviews, most helpful first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEngine(func(e *recommend.Engine) error {
				product, reviews, err := e.ProductReviews(commandContext(cmd), args[0])
				if err != nil {
					return err
				}
				total := len(reviews)
				if limit > 0 && len(reviews) > limit {
					reviews = reviews[:limit]
				}
				if opts.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
						"product": product,
						"count":   total,
						"reviews": reviews,
					})
				}

				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "%s by %s [%s], %s reviews\n\n", product.Title, product.Creator, product.ID, format.Describe(total))
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "QUALITY\tRATING\tHELPFUL\tUSER\tTITLE")
				for _, r := range reviews {
					user, ok := r.User()
					if !ok {
						user = "(anonymous)"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						format.DescribeFloat(r.Quality), format.DescribeFloat(r.Rating), helpful(r.Review), user, oneLine(r.Title, 60))
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum reviews shown, 0 for all")
	return cmd
}

// helpful is the share of votes that were upvotes, "-" without votes.
func helpful(r recommend.Review) string {
	votes := r.Upvotes + r.Downvotes
	if votes == 0 {
		return "-"
	}
	return format.ToPercent(float64(r.Upvotes) / float64(votes))
}

func oneLine(s string, maxRunes int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > maxRunes {
		return string(r[:maxRunes-1]) + "…"
	}
	return s
}
