// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/presto/internal/config"
	"github.com/tomtom215/presto/internal/database"
	"github.com/tomtom215/presto/internal/recommend"
	"github.com/tomtom215/presto/internal/textnorm"
)

// envelope decodes an APIResponse with Data kept raw.
type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata struct {
		RequestID   string `json:"request_id"`
		QueryTimeMS int64  `json:"query_time_ms"`
	} `json:"metadata"`
	Error *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func product(id, title, creator string) recommend.Product {
	return recommend.Product{
		ID:            id,
		Title:         title,
		TitleSearch:   textnorm.Normalize(title),
		Creator:       creator,
		CreatorSearch: textnorm.Normalize(creator),
		Category:      "Games",
	}
}

func review(id, productID, user string, rating float64, up, down int64) recommend.Review {
	r := recommend.Review{ID: id, ProductID: productID, Rating: rating, Upvotes: up, Downvotes: down}
	if user != "" {
		r.UserID = &user
	}
	return r
}

// setupTestDB opens an in-memory SQLite store with a small catalog:
//
//	g1 Chess    u1:5 u2:4 (anon:2)
//	g2 Go       u1:4 u3:3
//	g3 Checkers u2:5
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{Driver: database.DriverSQLite, Path: ":memory:"})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	ctx := context.Background()
	if _, err := db.InsertProducts(ctx, []recommend.Product{
		product("g1", "Chess", "Staunton"),
		product("g2", "Go", "Unknown"),
		product("g3", "Checkers", "Unknown"),
	}); err != nil {
		t.Fatalf("InsertProducts() error = %v", err)
	}
	if _, err := db.InsertReviews(ctx, []recommend.Review{
		review("r1", "g1", "u1", 5, 4, 0),
		review("r2", "g1", "u2", 4, 1, 0),
		review("r3", "g1", "", 2, 0, 3),
		review("r4", "g2", "u1", 4, 1, 0),
		review("r5", "g2", "u3", 3, 1, 0),
		review("r6", "g3", "u2", 5, 1, 0),
	}); err != nil {
		t.Fatalf("InsertReviews() error = %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		API:     config.APIConfig{DefaultPageSize: 10, MaxPageSize: 20},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

// setupTestRouter returns the full handler chain over a seeded store.
// mutate may adjust the engine configuration.
func setupTestRouter(t *testing.T, mutate func(*recommend.Config)) http.Handler {
	t.Helper()

	db := setupTestDB(t)
	engCfg := recommend.DefaultConfig()
	if mutate != nil {
		mutate(engCfg)
	}
	engine, err := recommend.NewEngine(engCfg, db, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	cfg := testConfig()
	mw := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true})
	return NewRouter(NewHandler(engine, db, nil, cfg), mw, cfg.Metrics).SetupChi()
}

func serve(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
