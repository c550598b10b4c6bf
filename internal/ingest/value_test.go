// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package ingest

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestValue_Single(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want string
	}{
		{"null", nil, ""},
		{"plain string", "Value", "Value"},
		{"literal one", "['Value']", "Value"},
		{"literal empty", "[]", ""},
		{"literal many", "['Tolkien', 'Lewis']", "Tolkien, Lewis"},
		{"json array string", `["a", "b"]`, "a, b"},
		{"bracketed text", "[Deluxe]", "[Deluxe]"},
		{"bracket prefix only", "[Deluxe] Edition", "[Deluxe] Edition"},
		{"array", []interface{}{"a", json.Number("2")}, "a, 2"},
		{"nested array", []interface{}{"a", []interface{}{"b", "c"}}, "a, b, c"},
		{"number", json.Number("42"), "42"},
		{"float", 2.5, "2.5"},
		{"bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewValue(tt.raw).String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValue_SingleSeparator(t *testing.T) {
	got := NewValue([]interface{}{"line one", "line two"}).Single("\n")
	if got != "line one\nline two" {
		t.Errorf("Single() = %q, want %q", got, "line one\nline two")
	}
}

func TestValue_Kind(t *testing.T) {
	tests := []struct {
		raw  interface{}
		want Kind
	}{
		{nil, KindNull},
		{"x", KindString},
		{json.Number("1"), KindNumber},
		{false, KindBool},
		{[]interface{}{}, KindArray},
		{map[string]interface{}{}, KindObject},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			if got := NewValue(tt.raw).Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_Float(t *testing.T) {
	tests := []struct {
		name    string
		raw     interface{}
		want    float64
		wantErr bool
	}{
		{"number", json.Number("4.5"), 4.5, false},
		{"float", 3.0, 3, false},
		{"numeric string", " 2.5 ", 2.5, false},
		{"nan string", "NaN", 0, true},
		{"inf number", json.Number("1e400"), 0, true},
		{"text", "five", 0, true},
		{"null", nil, 0, true},
		{"bool", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewValue(tt.raw).Float()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Float() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Float() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_Int(t *testing.T) {
	tests := []struct {
		name    string
		raw     interface{}
		want    int64
		wantErr bool
	}{
		{"number", json.Number("12"), 12, false},
		{"grouped string", "1,024", 1024, false},
		{"integral float text", json.Number("3.0"), 3, false},
		{"float", 7.0, 7, false},
		{"fraction", json.Number("2.5"), 0, true},
		{"text", "abc", 0, true},
		{"null", nil, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewValue(tt.raw).Int()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Int() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Int() = %d, want %d", got, tt.want)
			}
		})
	}
}
