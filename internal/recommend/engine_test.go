// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package recommend

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const scoreTolerance = 1e-9

// --- Test: NewEngine ---

func TestNewEngine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     *Config
		store   Store
		wantErr error
	}{
		{name: "nil config uses defaults", cfg: nil, store: &mockStore{}},
		{name: "valid default config", cfg: DefaultConfig(), store: &mockStore{}},
		{
			name: "invalid config returns error",
			cfg: func() *Config {
				c := DefaultConfig()
				c.Defaults.Limit = 0
				return c
			}(),
			store: &mockStore{},
		},
		{name: "nil store", cfg: nil, store: nil, wantErr: ErrNoStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine, err := NewEngine(tt.cfg, tt.store, zerolog.Nop())

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewEngine() error = %v, want %v", err, tt.wantErr)
				}
				return
			case tt.cfg != nil && tt.cfg.Validate() != nil:
				if err == nil {
					t.Error("NewEngine() = nil error, want error")
				}
				return
			}

			if err != nil {
				t.Fatalf("NewEngine() error = %v, want nil", err)
			}
			if engine.Config() == nil {
				t.Error("engine.Config() = nil, want non-nil")
			}
		})
	}
}

func TestEngine_ConfigIsCopied(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEngine(t, cfg, &mockStore{})

	cfg.Defaults.Limit = 7
	if got := e.Config().Defaults.Limit; got != 100 {
		t.Errorf("Config().Defaults.Limit = %d after caller mutation, want 100", got)
	}

	e.Config().Defaults.Limit = 9
	if got := e.Config().Defaults.Limit; got != 100 {
		t.Errorf("Config().Defaults.Limit = %d after accessor mutation, want 100", got)
	}
}

func TestEngine_NewRequest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Defaults.ExactMatch = false
	cfg.Defaults.ReviewerPoolSize = 42
	e := newTestEngine(t, cfg, &mockStore{})

	req := e.NewRequest("game", "Chess")

	if req.Category != "game" || req.SearchTerm != "Chess" {
		t.Errorf("NewRequest() = %+v, want category and term set", req)
	}
	if req.ExactMatch {
		t.Error("ExactMatch = true, want configured false")
	}
	if !req.FilterUnhelpful || !req.RemoveDuplicates {
		t.Error("FilterUnhelpful and RemoveDuplicates should default to true")
	}
	if req.ReviewerPoolSize != 42 {
		t.Errorf("ReviewerPoolSize = %d, want 42", req.ReviewerPoolSize)
	}
	if req.SearchField != SearchTitle {
		t.Errorf("SearchField = %q, want %q", req.SearchField, SearchTitle)
	}
}

// --- Test: Recommend ---

func TestEngine_Recommend(t *testing.T) {
	store := gameStore()
	e := newTestEngine(t, nil, store)

	res, err := e.Recommend(context.Background(), e.NewRequest("game", "Chess"))
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if res.Outcome != OutcomeOK {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeOK)
	}
	if res.Product == nil || res.Product.ID != "a-chess" {
		t.Fatalf("Product = %+v, want a-chess", res.Product)
	}
	if res.Product.Reviews != 11 {
		t.Errorf("Product.Reviews = %d, want 11", res.Product.Reviews)
	}

	// The two "Chess" editions collapse to the most reviewed one.
	if len(res.Matches) != 1 {
		t.Errorf("len(Matches) = %d, want 1", len(res.Matches))
	}

	// Five identified reviews, five anonymous; the unhelpful one is dropped.
	if len(res.Reviews) != 10 {
		t.Errorf("len(Reviews) = %d, want 10", len(res.Reviews))
	}

	wantSummary := ReviewSummary{Reviews: 13, Users: 5, Products: 5}
	if res.Summary != wantSummary {
		t.Errorf("Summary = %+v, want %+v", res.Summary, wantSummary)
	}

	want := []struct {
		id    string
		score float64
	}{
		{"b-go", math.Sqrt(0.6)},
		{"z-checkers", math.Sqrt(0.4)},
		{"c-poker", 20 / math.Sqrt(1250)},
	}
	if len(res.Recommendations) != len(want) {
		t.Fatalf("len(Recommendations) = %d, want %d: %+v", len(res.Recommendations), len(want), res.Recommendations)
	}
	for i, w := range want {
		got := res.Recommendations[i]
		if got.ID != w.id {
			t.Errorf("Recommendations[%d].ID = %q, want %q", i, got.ID, w.id)
		}
		if math.Abs(got.Score-w.score) > scoreTolerance {
			t.Errorf("Recommendations[%d].Score = %v, want %v", i, got.Score, w.score)
		}
		if got.Title == "" {
			t.Errorf("Recommendations[%d] has no product details", i)
		}
	}
}

func TestEngine_Recommend_KeepDuplicates(t *testing.T) {
	e := newTestEngine(t, nil, gameStore())

	req := e.NewRequest("game", "chess")
	req.RemoveDuplicates = false

	res, err := e.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if len(res.Matches) != 2 {
		t.Fatalf("len(Matches) = %d, want 2", len(res.Matches))
	}
	if res.Matches[0].ID != "a-chess" || res.Matches[1].ID != "a-chess-2" {
		t.Errorf("Matches = [%s %s], want [a-chess a-chess-2]", res.Matches[0].ID, res.Matches[1].ID)
	}
	if res.Matches[0].Reviews < res.Matches[1].Reviews {
		t.Error("Matches not ordered by review count")
	}

	last := res.Recommendations[len(res.Recommendations)-1]
	if last.ID != "a-chess-2" {
		t.Errorf("last recommendation = %q, want a-chess-2", last.ID)
	}
	if math.Abs(last.Score-math.Sqrt(0.2)) > scoreTolerance {
		t.Errorf("a-chess-2 score = %v, want %v", last.Score, math.Sqrt(0.2))
	}
}

func TestEngine_Recommend_KeepUnhelpful(t *testing.T) {
	e := newTestEngine(t, nil, gameStore())

	req := e.NewRequest("game", "Chess")
	req.FilterUnhelpful = false

	res, err := e.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if len(res.Reviews) != 11 {
		t.Errorf("len(Reviews) = %d, want 11", len(res.Reviews))
	}
	if res.Summary.Users != 6 {
		t.Errorf("Summary.Users = %d, want 6 (u9 included)", res.Summary.Users)
	}
}

func TestEngine_Recommend_ReviewerPool(t *testing.T) {
	e := newTestEngine(t, nil, gameStore())

	req := e.NewRequest("game", "Chess")
	req.ReviewerPoolSize = 2

	res, err := e.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	users := ReviewerIDs(res.RelatedReviews)
	if len(users) != 2 {
		t.Fatalf("pool users = %v, want 2 users", users)
	}
	// u1 wrote 4 reviews, u2 wrote 3; everyone else wrote 2.
	if !reflect.DeepEqual(toSet(users), toSet([]string{"u1", "u2"})) {
		t.Errorf("pool users = %v, want [u1 u2]", users)
	}
}

func TestEngine_Recommend_ReviewersRankedBeforeFiltering(t *testing.T) {
	var s reviewSet
	s.add("target", "ua", 5)
	for i := 0; i < 3; i++ {
		s.add("p1", "ua", 2).Downvotes = 5
	}
	s.add("target", "ub", 4)
	s.add("p2", "ub", 4)

	store := &mockStore{
		products: []Product{
			product("target", "game", "Target", "Maker"),
			product("p1", "game", "One", "Maker"),
			product("p2", "game", "Two", "Maker"),
		},
		reviews: s.reviews,
	}
	e := newTestEngine(t, nil, store)

	req := e.NewRequest("game", "Target")
	req.FilterUnhelpful = true
	req.ReviewerPoolSize = 1

	res, err := e.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	// ua wrote 4 reviews before filtering, ub only 2.
	if users := ReviewerIDs(res.RelatedReviews); !reflect.DeepEqual(users, []string{"ua"}) {
		t.Errorf("pool users = %v, want [ua]", users)
	}
	for _, r := range res.RelatedReviews {
		if !r.Helpful() {
			t.Errorf("pool kept unhelpful review %s", r.ID)
		}
	}
}

func TestEngine_Recommend_Limit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		max   int
		want  int
	}{
		{"limit one", 1, 1000, 1},
		{"limit above results", 50, 1000, 3},
		{"limit capped", 500, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Defaults.Limit = 1
			cfg.Limits.MaxLimit = tt.max
			e := newTestEngine(t, cfg, gameStore())

			req := e.NewRequest("game", "Chess")
			req.Limit = tt.limit

			res, err := e.Recommend(context.Background(), req)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if len(res.Recommendations) != tt.want {
				t.Errorf("len(Recommendations) = %d, want %d", len(res.Recommendations), tt.want)
			}
		})
	}
}

func TestEngine_Recommend_ZeroFieldsTakeDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Defaults.Limit = 2
	e := newTestEngine(t, cfg, gameStore())

	res, err := e.Recommend(context.Background(), Request{
		Category:         "game",
		SearchTerm:       "Chess",
		ExactMatch:       true,
		FilterUnhelpful:  true,
		RemoveDuplicates: true,
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(res.Recommendations) != 2 {
		t.Errorf("len(Recommendations) = %d, want default limit 2", len(res.Recommendations))
	}
}

func TestEngine_Recommend_NoMatch(t *testing.T) {
	store := gameStore()
	e := newTestEngine(t, nil, store)

	res, err := e.Recommend(context.Background(), e.NewRequest("game", "Backgammon"))
	if err != nil {
		t.Fatalf("Recommend() error = %v, want nil", err)
	}

	if res.Outcome != OutcomeNoMatch {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeNoMatch)
	}
	if res.Product != nil {
		t.Errorf("Product = %+v, want nil", res.Product)
	}
	if res.Matches == nil || res.Reviews == nil || res.RelatedReviews == nil || res.Recommendations == nil {
		t.Error("empty result collections should be non-nil")
	}
	if store.reviewsCalls != 0 || store.usersCalls != 0 {
		t.Errorf("store calls after no match = %d/%d, want 0/0", store.reviewsCalls, store.usersCalls)
	}
}

func TestEngine_Recommend_EmptyPool(t *testing.T) {
	store := gameStore()
	e := newTestEngine(t, nil, store)

	// The only book has anonymous reviews, so there is no one to follow.
	res, err := e.Recommend(context.Background(), e.NewRequest("book", "Chess"))
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if res.Outcome != OutcomeEmptyPool {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeEmptyPool)
	}
	if res.Product == nil || res.Product.ID != "book-chess" {
		t.Errorf("Product = %+v, want book-chess", res.Product)
	}
	if len(res.Reviews) != 1 {
		t.Errorf("len(Reviews) = %d, want 1", len(res.Reviews))
	}
	if len(res.Recommendations) != 0 {
		t.Errorf("len(Recommendations) = %d, want 0", len(res.Recommendations))
	}
	if store.usersCalls != 0 {
		t.Errorf("ReviewsByUsers calls = %d, want 0", store.usersCalls)
	}
}

func TestEngine_Recommend_TargetPruned(t *testing.T) {
	e := newTestEngine(t, nil, gameStore())

	// a-chess, b-go and z-checkers tie at two pool reviews each. Ties go
	// to the lowest ids and z-checkers sorts last.
	req := e.NewRequest("game", "Checkers")
	req.ProductPoolSize = 2

	res, err := e.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if res.Outcome != OutcomeTargetPruned {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeTargetPruned)
	}
	if len(res.Recommendations) != 0 {
		t.Errorf("len(Recommendations) = %d, want 0", len(res.Recommendations))
	}
}

func TestEngine_Recommend_Intractable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits.MaxCells = 4
	cfg.Limits.WarnCells = 0
	store := gameStore()
	e := newTestEngine(t, cfg, store)

	_, err := e.Recommend(context.Background(), e.NewRequest("game", "Chess"))
	if !errors.Is(err, ErrIntractableComputation) {
		t.Fatalf("Recommend() error = %v, want ErrIntractableComputation", err)
	}
	if store.detailsCalls != 0 {
		t.Errorf("ProductsByIDs calls = %d, want 0", store.detailsCalls)
	}
}

func TestEngine_Recommend_InvalidRequest(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Request)
	}{
		{"missing category", func(r *Request) { r.Category = "" }},
		{"missing term", func(r *Request) { r.SearchTerm = "" }},
		{"unknown field", func(r *Request) { r.SearchField = "isbn" }},
		{"negative reviewer pool", func(r *Request) { r.ReviewerPoolSize = -1 }},
		{"negative product pool", func(r *Request) { r.ProductPoolSize = -5 }},
		{"negative limit", func(r *Request) { r.Limit = -1 }},
		{"negative missing rating", func(r *Request) { r.MissingRating = -1 }},
		{"NaN missing rating", func(r *Request) { r.MissingRating = math.NaN() }},
		{"infinite missing rating", func(r *Request) { r.MissingRating = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := gameStore()
			e := newTestEngine(t, nil, store)

			req := e.NewRequest("game", "Chess")
			tt.modify(&req)

			_, err := e.Recommend(context.Background(), req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("Recommend() error = %v, want ErrInvalidRequest", err)
			}
			if store.findCalls != 0 {
				t.Errorf("FindProducts calls = %d, want 0", store.findCalls)
			}
		})
	}
}

func TestEngine_Recommend_StoreErrors(t *testing.T) {
	errDown := errors.New("store down")

	tests := []struct {
		name   string
		modify func(*mockStore)
	}{
		{"find", func(m *mockStore) { m.findErr = errDown }},
		{"seed reviews", func(m *mockStore) { m.reviewsErr = errDown }},
		{"related reviews", func(m *mockStore) { m.usersErr = errDown }},
		{"product details", func(m *mockStore) { m.detailsErr = errDown }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := gameStore()
			tt.modify(store)
			e := newTestEngine(t, nil, store)

			res, err := e.Recommend(context.Background(), e.NewRequest("game", "Chess"))
			if !errors.Is(err, errDown) {
				t.Errorf("Recommend() error = %v, want wrapped %v", err, errDown)
			}
			if res != nil {
				t.Errorf("Recommend() result = %+v, want nil on error", res)
			}
		})
	}
}

func TestEngine_Recommend_MissingRating(t *testing.T) {
	e := newTestEngine(t, nil, gameStore())

	req := e.NewRequest("game", "Chess")
	req.MissingRating = 2.5

	res, err := e.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for _, r := range res.Recommendations {
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("score %v for %s outside [0, 1]", r.Score, r.ID)
		}
	}

	// With a non-zero fill the poker vector [2.5 2.5 2.5 1 3] is close to
	// the all-fives chess vector, so it overtakes checkers.
	base, err := e.Recommend(context.Background(), e.NewRequest("game", "Chess"))
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if reflect.DeepEqual(base.Recommendations, res.Recommendations) {
		t.Error("missing rating had no effect on scores")
	}
}

func TestEngine_Recommend_Idempotent(t *testing.T) {
	e := newTestEngine(t, nil, gameStore())
	req := e.NewRequest("game", "Chess")

	first, err := e.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	second, err := e.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if !reflect.DeepEqual(first.Recommendations, second.Recommendations) {
		t.Errorf("second run = %+v, want %+v", second.Recommendations, first.Recommendations)
	}
}

func TestEngine_Recommend_Cancelled(t *testing.T) {
	e := newTestEngine(t, nil, gameStore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Recommend(ctx, e.NewRequest("game", "Chess"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Recommend() error = %v, want context.Canceled", err)
	}
}

func TestEngine_Recommend_Timings(t *testing.T) {
	e := newTestEngine(t, nil, gameStore())

	res, err := e.Recommend(context.Background(), e.NewRequest("game", "Chess"))
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	tm := res.Timings
	if tm.Total <= 0 {
		t.Errorf("Timings.Total = %v, want > 0", tm.Total)
	}
	if sum := tm.Resolve + tm.Seed + tm.Expand + tm.Similarity + tm.Details; sum > tm.Total {
		t.Errorf("stage sum %v exceeds total %v", sum, tm.Total)
	}
}

func TestEngine_Recommend_Concurrent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits.Timeout = 10 * time.Second
	e := newTestEngine(t, cfg, gameStore())

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.Recommend(context.Background(), e.NewRequest("game", "Chess"))
			if err != nil {
				errs <- err
				return
			}
			if len(res.Recommendations) != 3 {
				errs <- errors.New("unexpected recommendation count")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
