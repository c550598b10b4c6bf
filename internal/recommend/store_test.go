// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/presto/internal/textnorm"
)

// mockStore is an in-memory Store with call counters and injectable errors.
type mockStore struct {
	mu       sync.Mutex
	products []Product
	reviews  []Review

	findErr    error
	reviewsErr error
	usersErr   error
	detailsErr error

	findCalls    int
	reviewsCalls int
	usersCalls   int
	detailsCalls int
}

func (m *mockStore) FindProducts(_ context.Context, q ProductQuery) ([]ProductMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}

	counts := make(map[string]int64)
	for _, r := range m.reviews {
		counts[r.ProductID]++
	}

	var out []ProductMatch
	for _, p := range m.products {
		if p.Category != q.Category {
			continue
		}
		field := p.TitleSearch
		if q.Field == SearchCreator {
			field = p.CreatorSearch
		}
		if q.Exact && field != q.Term {
			continue
		}
		if !q.Exact && !strings.Contains(field, q.Term) {
			continue
		}
		out = append(out, ProductMatch{Product: p, Reviews: counts[p.ID]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Reviews != out[j].Reviews {
			return out[i].Reviews > out[j].Reviews
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockStore) ReviewsForProducts(_ context.Context, productIDs []string) ([]Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviewsCalls++
	if m.reviewsErr != nil {
		return nil, m.reviewsErr
	}
	want := toSet(productIDs)
	var out []Review
	for _, r := range m.reviews {
		if _, ok := want[r.ProductID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) ReviewsByUsers(_ context.Context, userIDs []string) ([]Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usersCalls++
	if m.usersErr != nil {
		return nil, m.usersErr
	}
	want := toSet(userIDs)
	var out []Review
	for _, r := range m.reviews {
		user, ok := r.User()
		if !ok {
			continue
		}
		if _, ok := want[user]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) ProductsByIDs(_ context.Context, ids []string) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detailsCalls++
	if m.detailsErr != nil {
		return nil, m.detailsErr
	}
	want := toSet(ids)
	var out []Product
	// Reverse order: callers must not depend on it.
	for i := len(m.products) - 1; i >= 0; i-- {
		if _, ok := want[m.products[i].ID]; ok {
			out = append(out, m.products[i])
		}
	}
	return out, nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func product(id, category, title, creator string) Product {
	return Product{
		ID:            id,
		Title:         title,
		TitleSearch:   textnorm.Normalize(title),
		Creator:       creator,
		CreatorSearch: textnorm.Normalize(creator),
		Category:      category,
	}
}

func userPtr(id string) *string {
	return &id
}

// reviewSet builds reviews with sequential ids.
type reviewSet struct {
	reviews []Review
}

func (s *reviewSet) add(productID, user string, rating float64) *Review {
	r := Review{
		ID:        fmt.Sprintf("r%03d", len(s.reviews)+1),
		ProductID: productID,
		Rating:    rating,
	}
	if user != "" {
		r.UserID = userPtr(user)
	}
	s.reviews = append(s.reviews, r)
	return &s.reviews[len(s.reviews)-1]
}

// gameStore is the board-game dataset most engine tests run against.
//
// Reviewer vectors over u1..u5 for the helpful pool of "Chess":
//
//	a-chess    [5 5 5 5 5]
//	b-go       [5 5 5 0 0]  cos = sqrt(0.6)
//	z-checkers [5 5 0 0 0]  cos = sqrt(0.4)
//	c-poker    [0 0 0 1 3]  cos = 20/sqrt(1250)
//	a-chess-2  [4 0 0 0 0]  cos = sqrt(0.2)
//
// u9 wrote an unhelpful review of a-chess and only joins the pool when
// unhelpful reviews are kept.
func gameStore() *mockStore {
	var s reviewSet
	for _, u := range []string{"u1", "u2", "u3", "u4", "u5"} {
		s.add("a-chess", u, 5)
	}
	for i := 0; i < 5; i++ {
		s.add("a-chess", "", 4)
	}
	bad := s.add("a-chess", "u9", 1)
	bad.Downvotes = 10

	s.add("a-chess-2", "u1", 4)
	s.add("a-chess-2", "u6", 4)
	s.add("a-chess-2", "u7", 4)

	s.add("b-go", "u1", 5)
	s.add("b-go", "u2", 5)
	s.add("b-go", "u3", 5)

	s.add("z-checkers", "u1", 5)
	s.add("z-checkers", "u2", 5)

	s.add("c-poker", "u4", 1)
	s.add("c-poker", "u5", 3)
	s.add("c-poker", "u9", 5)

	s.add("book-chess", "", 5)

	return &mockStore{
		products: []Product{
			product("a-chess", "game", "Chess", "Staunton"),
			product("a-chess-2", "game", "chess", "Staunton"),
			product("b-go", "game", "Go", "Nikken"),
			product("z-checkers", "game", "Checkers", "Hoyle"),
			product("c-poker", "game", "Poker", "Hoyle"),
			product("book-chess", "book", "Chess", "Kasparov, Garry"),
		},
		reviews: s.reviews,
	}
}

func newTestEngine(tb interface{ Fatalf(string, ...any) }, cfg *Config, store Store) *Engine {
	e, err := NewEngine(cfg, store, zerolog.Nop())
	if err != nil {
		tb.Fatalf("NewEngine() error = %v", err)
	}
	return e
}
