// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tomtom215/presto/internal/format"
	"github.com/tomtom215/presto/internal/recommend"
)

// requestFlags are the per-call knobs of a recommendation. Only flags the
// user set override the engine defaults.
type requestFlags struct {
	field     string
	exact     bool
	filter    bool
	dedupe    bool
	reviewers int
	products  int
	limit     int
	fill      float64
}

func newRecommendCmd(opts *options) *cobra.Command {
	var f requestFlags

	cmd := &cobra.Command{
		Use:   "recommend <category> <search term>",
		Short: "Recommend products similar to a search match",
		Example: `  presto recommend Books "the hobbit"
  presto recommend Books tolkien --field creator --limit 10
  presto recommend Games chess --reviewers 500 --products 5000 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEngine(func(e *recommend.Engine) error {
				req := f.apply(cmd, e.NewRequest(args[0], args[1]))
				res, err := e.Recommend(commandContext(cmd), req)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), res)
				}
				return printResult(cmd.OutOrStdout(), res)
			})
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.field, "field", string(recommend.SearchTitle), "search field: title or creator")
	fl.BoolVar(&f.exact, "exact", true, "require the normalized field to equal the term")
	fl.BoolVar(&f.filter, "filter-unhelpful", true, "drop reviews with more downvotes than upvotes")
	fl.BoolVar(&f.dedupe, "dedupe", true, "collapse duplicate editions")
	fl.IntVar(&f.reviewers, "reviewers", 0, "reviewer pool size (default from config)")
	fl.IntVar(&f.products, "products", 0, "product pool size (default from config)")
	fl.IntVar(&f.limit, "limit", 0, "number of recommendations (default from config)")
	fl.Float64Var(&f.fill, "fill", 0, "rating assumed where a reviewer did not rate a product")
	return cmd
}

func (f *requestFlags) apply(cmd *cobra.Command, req recommend.Request) recommend.Request {
	changed := cmd.Flags().Changed
	if changed("field") {
		req.SearchField = recommend.SearchField(f.field)
	}
	if changed("exact") {
		req.ExactMatch = f.exact
	}
	if changed("filter-unhelpful") {
		req.FilterUnhelpful = f.filter
	}
	if changed("dedupe") {
		req.RemoveDuplicates = f.dedupe
	}
	if changed("reviewers") {
		req.ReviewerPoolSize = f.reviewers
	}
	if changed("products") {
		req.ProductPoolSize = f.products
	}
	if changed("limit") {
		req.Limit = f.limit
	}
	if changed("fill") {
		req.MissingRating = f.fill
	}
	return req
}

func printResult(w io.Writer, res *recommend.Result) error {
	if res.Product == nil {
		_, err := fmt.Fprintln(w, "No product matched.")
		return err
	}

	p := res.Product
	fmt.Fprintf(w, "Matched %q by %s [%s], %s reviews\n", p.Title, p.Creator, p.ID, format.DescribeInt(p.Reviews))
	if n := len(res.Matches); n > 1 {
		fmt.Fprintf(w, "(%s other matches)\n", format.Describe(n-1))
	}
	fmt.Fprintf(w, "Pool: %s reviews by %s reviewers across %s products\n\n",
		format.Describe(res.Summary.Reviews), format.Describe(res.Summary.Users), format.Describe(res.Summary.Products))

	if len(res.Recommendations) == 0 {
		_, err := fmt.Fprintf(w, "No recommendations (%s).\n", res.Outcome)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSIMILARITY\tID\tTITLE\tCREATOR")
	for i, rec := range res.Recommendations {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, format.ToPercent(rec.Score), rec.ID, rec.Title, rec.Creator)
	}
	return tw.Flush()
}
