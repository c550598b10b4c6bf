// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/presto/internal/recommend"
)

const productsJSONL = `{"id": "g1", "title": "Chess", "creator": "Staunton", "category": "Games"}
{"id": "g2", "title": "Go", "creator": "Unknown", "category": "Games"}
{"id": "g3", "title": "Checkers", "creator": "Unknown", "category": "Games"}
`

const reviewsJSONL = `{"id": "r1", "product_id": "g1", "user_id": "u1", "rating": 5, "upvotes": 4, "downvotes": 0, "title": "Timeless"}
{"id": "r2", "product_id": "g1", "user_id": "u2", "rating": 4, "upvotes": 1, "downvotes": 0}
{"id": "r3", "product_id": "g1", "user_id": null, "rating": 2, "upvotes": 0, "downvotes": 3}
{"id": "r4", "product_id": "g2", "user_id": "u1", "rating": 4, "upvotes": 1, "downvotes": 0}
{"id": "r5", "product_id": "g2", "user_id": "u3", "rating": 3, "upvotes": 1, "downvotes": 0}
{"id": "r6", "product_id": "g3", "user_id": "u2", "rating": 5, "upvotes": 1, "downvotes": 0}
`

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd("test")
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// seededStore ingests the sample catalog into a fresh SQLite file and
// returns the flags that select it.
func seededStore(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	products := filepath.Join(dir, "products.jsonl")
	reviews := filepath.Join(dir, "reviews.jsonl")
	if err := os.WriteFile(products, []byte(productsJSONL), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(reviews, []byte(reviewsJSONL), 0o600); err != nil {
		t.Fatal(err)
	}

	store := []string{"--driver", "sqlite", "--db", filepath.Join(dir, "presto.db"), "--log-level", "error"}
	for _, job := range [][]string{{"products", products}, {"reviews", reviews}} {
		out, err := run(t, append([]string{"ingest", job[0], job[1]}, store...)...)
		if err != nil {
			t.Fatalf("ingest %s error = %v", job[0], err)
		}
		if !strings.Contains(out, "inserted:") {
			t.Fatalf("ingest %s output = %q, want stats", job[0], out)
		}
	}
	return store
}

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd("1.2.3")
	if root.Use != "presto" || root.Version != "1.2.3" {
		t.Errorf("root = %q %q", root.Use, root.Version)
	}
	want := []string{"ingest", "recommend", "reviews", "schema", "search"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"config", "driver", "db", "log-level", "json"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestIngest_Rerun(t *testing.T) {
	store := seededStore(t)
	dir := filepath.Dir(store[3])

	out, err := run(t, append([]string{"ingest", "reviews", filepath.Join(dir, "reviews.jsonl")}, store...)...)
	if err != nil {
		t.Fatalf("second ingest error = %v", err)
	}
	if !strings.Contains(out, "inserted:  0") || !strings.Contains(out, "skipped:   6") {
		t.Errorf("second ingest output = %q, want 0 inserted and 6 skipped", out)
	}
}

func TestIngest_Errors(t *testing.T) {
	dir := t.TempDir()
	store := []string{"--driver", "sqlite", "--db", filepath.Join(dir, "presto.db"), "--log-level", "error"}

	if _, err := run(t, append([]string{"ingest", "widgets", "x.jsonl"}, store...)...); err == nil {
		t.Error("unknown table: error = nil")
	}
	if _, err := run(t, append([]string{"ingest", "products", filepath.Join(dir, "missing.jsonl")}, store...)...); err == nil {
		t.Error("missing file: error = nil")
	}
	if _, err := run(t, "ingest", "products"); err == nil {
		t.Error("missing argument: error = nil")
	}
}

func TestSchema(t *testing.T) {
	store := seededStore(t)

	out, err := run(t, append([]string{"schema"}, store...)...)
	if err != nil {
		t.Fatalf("schema error = %v", err)
	}
	if !strings.Contains(out, "sqlite store ready: 3 products, 6 reviews") {
		t.Errorf("schema output = %q", out)
	}
}

func TestSearch(t *testing.T) {
	store := seededStore(t)

	out, err := run(t, append([]string{"search", "Games", "ch"}, store...)...)
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	for _, want := range []string{"g1", "Chess", "g3", "Checkers"} {
		if !strings.Contains(out, want) {
			t.Errorf("search output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "g1") > strings.Index(out, "g3") {
		t.Errorf("g1 (3 reviews) listed after g3 (1 review):\n%s", out)
	}

	out, err = run(t, append([]string{"search", "Games", "poker"}, store...)...)
	if err != nil || !strings.Contains(out, "No products matched") {
		t.Errorf("search poker = %q, %v", out, err)
	}
}

func TestSearch_JSON(t *testing.T) {
	store := seededStore(t)

	out, err := run(t, append([]string{"search", "Games", "chess", "--json"}, store...)...)
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	var matches []recommend.ProductMatch
	if err := json.Unmarshal([]byte(out), &matches); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(matches) != 1 || matches[0].ID != "g1" || matches[0].Reviews != 3 {
		t.Errorf("matches = %+v, want g1 with 3 reviews", matches)
	}
}

func TestRecommend(t *testing.T) {
	store := seededStore(t)

	out, err := run(t, append([]string{"recommend", "Games", "chess"}, store...)...)
	if err != nil {
		t.Fatalf("recommend error = %v", err)
	}
	if !strings.Contains(out, `Matched "Chess" by Staunton [g1]`) {
		t.Errorf("output missing match line:\n%s", out)
	}
	// u1 and u2 rate g1 (5, 4), g2 (4, -) and g3 (-, 5): cos = 5/sqrt(41) and 4/sqrt(41).
	for _, want := range []string{"78%", "62%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing score %s:\n%s", want, out)
		}
	}
	if strings.Index(out, "Go") > strings.Index(out, "Checkers") {
		t.Errorf("Go should rank above Checkers:\n%s", out)
	}
}

func TestRecommend_Flags(t *testing.T) {
	store := seededStore(t)

	out, err := run(t, append([]string{"recommend", "Games", "chess", "--limit", "1", "--json"}, store...)...)
	if err != nil {
		t.Fatalf("recommend error = %v", err)
	}
	var res recommend.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Recommendations) != 1 || res.Recommendations[0].ID != "g2" {
		t.Errorf("recommendations = %+v, want only g2", res.Recommendations)
	}

	if _, err := run(t, append([]string{"recommend", "Games", "chess", "--field", "isbn"}, store...)...); !errors.Is(err, recommend.ErrInvalidRequest) {
		t.Errorf("bad field error = %v, want ErrInvalidRequest", err)
	}
}

func TestRecommend_NoMatch(t *testing.T) {
	store := seededStore(t)

	out, err := run(t, append([]string{"recommend", "Games", "poker"}, store...)...)
	if err != nil {
		t.Fatalf("recommend error = %v", err)
	}
	if !strings.Contains(out, "No product matched.") {
		t.Errorf("output = %q", out)
	}
}

func TestReviews(t *testing.T) {
	store := seededStore(t)

	out, err := run(t, append([]string{"reviews", "g1"}, store...)...)
	if err != nil {
		t.Fatalf("reviews error = %v", err)
	}
	u1, u2, anon := strings.Index(out, "u1"), strings.Index(out, "u2"), strings.Index(out, "(anonymous)")
	if u1 < 0 || u2 < 0 || anon < 0 || !(u1 < u2 && u2 < anon) {
		t.Errorf("reviews not in quality order:\n%s", out)
	}
	if !strings.Contains(out, "Timeless") {
		t.Errorf("review title missing:\n%s", out)
	}

	if _, err := run(t, append([]string{"reviews", "nope"}, store...)...); !errors.Is(err, recommend.ErrProductNotFound) {
		t.Errorf("unknown product error = %v, want ErrProductNotFound", err)
	}
}

func TestHelpful(t *testing.T) {
	tests := []struct {
		up, down int64
		want     string
	}{
		{0, 0, "-"},
		{4, 0, "100%"},
		{1, 3, "25%"},
		{0, 5, "0%"},
	}
	for _, tt := range tests {
		if got := helpful(recommend.Review{Upvotes: tt.up, Downvotes: tt.down}); got != tt.want {
			t.Errorf("helpful(%d, %d) = %q, want %q", tt.up, tt.down, got, tt.want)
		}
	}
}

func TestOneLine(t *testing.T) {
	if got := oneLine("  a\n b  ", 10); got != "a b" {
		t.Errorf("oneLine = %q, want %q", got, "a b")
	}
	if got := oneLine("abcdefghij", 5); got != "abcd…" {
		t.Errorf("oneLine = %q, want %q", got, "abcd…")
	}
}
