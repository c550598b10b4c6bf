// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Kind classifies a decoded JSON value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is one decoded field of a JSONL record. Numbers keep their source
// text (json.Number) so ids and counts never pass through float64.
type Value struct {
	raw interface{}
}

// NewValue wraps a value produced by a JSON decoder with UseNumber.
func NewValue(raw interface{}) Value {
	return Value{raw: raw}
}

func (v Value) Kind() Kind {
	switch v.raw.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case json.Number, float64, int, int64:
		return KindNumber
	case bool:
		return KindBool
	case []interface{}:
		return KindArray
	case map[string]interface{}:
		return KindObject
	default:
		return KindString
	}
}

func (v Value) IsNull() bool {
	return v.raw == nil
}

// String is Single(", ").
func (v Value) String() string {
	return v.Single(", ")
}

// Single flattens the value to one string. Arrays, and strings holding an
// array literal such as "['Tolkien', 'Lewis']", are joined with sep:
//
//	"['Value']"  -> "Value"
//	"[]"         -> ""
//	"[1, 2]"     -> "1, 2"
//	"Value"      -> "Value"
func (v Value) Single(sep string) string {
	switch raw := v.raw.(type) {
	case nil:
		return ""
	case string:
		if strings.HasPrefix(raw, "[") {
			if items, ok := ParseLiteralArray(raw); ok {
				return joinValues(items, sep)
			}
		}
		return raw
	case []interface{}:
		return joinValues(raw, sep)
	default:
		return scalarString(raw)
	}
}

func joinValues(items []interface{}, sep string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = NewValue(item).Single(sep)
	}
	return strings.Join(parts, sep)
}

func scalarString(raw interface{}) string {
	switch x := raw.(type) {
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case map[string]interface{}:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}

// Float parses numbers and numeric strings. NaN and ±Inf are rejected.
func (v Value) Float() (float64, error) {
	var (
		f   float64
		err error
	)
	switch raw := v.raw.(type) {
	case json.Number:
		f, err = raw.Float64()
	case float64:
		f = raw
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(raw), 64)
	default:
		return 0, fmt.Errorf("%s is not a number", v.Kind())
	}
	if err != nil {
		return 0, fmt.Errorf("parse number: %w", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("number %v is not finite", f)
	}
	return f, nil
}

// Int parses integral numbers, accepting "1,024" style grouping in strings
// and floats without a fractional part.
func (v Value) Int() (int64, error) {
	switch raw := v.raw.(type) {
	case json.Number:
		if n, err := raw.Int64(); err == nil {
			return n, nil
		}
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
	}

	f, err := v.Float()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, fmt.Errorf("number %v is not an integer", f)
	}
	return int64(f), nil
}
