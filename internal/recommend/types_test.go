// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package recommend

import (
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestSearchField_Column(t *testing.T) {
	tests := []struct {
		field   SearchField
		want    string
		wantErr bool
	}{
		{SearchTitle, "title_search", false},
		{"", "title_search", false},
		{SearchCreator, "creator_search", false},
		{"isbn", "", true},
		{"title_search; DROP TABLE review", "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			got, err := tt.field.Column()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRequest) {
					t.Errorf("Column() error = %v, want ErrInvalidRequest", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("Column() = %q, %v, want %q", got, err, tt.want)
			}
		})
	}
}

func TestReview_User(t *testing.T) {
	if _, ok := (Review{}).User(); ok {
		t.Error("User() ok = true for anonymous review")
	}
	if id, ok := (Review{UserID: userPtr("u1")}).User(); !ok || id != "u1" {
		t.Errorf("User() = %q, %v, want u1, true", id, ok)
	}
}

func TestReview_Helpful(t *testing.T) {
	tests := []struct {
		up, down int64
		want     bool
	}{
		{0, 0, true},
		{5, 1, true},
		{3, 3, true},
		{1, 2, false},
	}
	for _, tt := range tests {
		if got := (Review{Upvotes: tt.up, Downvotes: tt.down}).Helpful(); got != tt.want {
			t.Errorf("Helpful(%d up, %d down) = %v, want %v", tt.up, tt.down, got, tt.want)
		}
	}
}

func TestResult_JSON(t *testing.T) {
	res := emptyResult()
	res.Outcome = OutcomeNoMatch

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(data)

	for _, want := range []string{`"product":null`, `"matches":[]`, `"recommendations":[]`, `"outcome":"no_match"`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s missing %s", s, want)
		}
	}
}

func TestProduct_JSONHidesSearchColumns(t *testing.T) {
	data, err := json.Marshal(product("p1", "game", "The Chess", "Staunton"))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "search") {
		t.Errorf("JSON %s exposes normalized search columns", data)
	}
}
