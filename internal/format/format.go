// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

// Package format turns counts, scores and rates into short display strings
// for CLI output.
package format

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// DescribeInt abbreviates large counts:
//
//	1234567 -> "1.2M"
//	12345   -> "12K"
//	1260    -> "1.3K"
//	999     -> "999"
func DescribeInt(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 10_000:
		return fmt.Sprintf("%.0fK", math.RoundToEven(float64(n)/1_000))
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// DescribeFloat abbreviates like DescribeInt and shows values between 0.1
// and 1000 with two decimals. Smaller values are printed in full.
func DescribeFloat(f float64) string {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return strconv.FormatFloat(f, 'g', -1, 64)
	case f >= 1_000_000:
		return fmt.Sprintf("%.1fM", f/1_000_000)
	case f >= 10_000:
		return fmt.Sprintf("%.0fK", math.RoundToEven(f/1_000))
	case f >= 1_000:
		return fmt.Sprintf("%.1fK", f/1_000)
	case f < 0.1:
		return strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return fmt.Sprintf("%.2f", f)
	}
}

// Describe formats numeric values with DescribeInt or DescribeFloat and
// anything else with fmt.
func Describe(v any) string {
	switch x := v.(type) {
	case int:
		return DescribeInt(int64(x))
	case int32:
		return DescribeInt(int64(x))
	case int64:
		return DescribeInt(x)
	case uint32:
		return DescribeInt(int64(x))
	case float32:
		return DescribeFloat(float64(x))
	case float64:
		return DescribeFloat(x)
	case string:
		return x
	default:
		return fmt.Sprint(v)
	}
}

// ToPercent renders a 0-1 rate. From 9.95% up whole percents are shown
// with thousands separators; below that one decimal, "~0%" for anything
// under 0.05% and "0%" for exactly zero.
func ToPercent(rate float64) string {
	pct := rate * 100
	switch {
	case pct >= 9.95:
		return printer.Sprintf("%d%%", int64(math.RoundToEven(pct)))
	case pct == 0:
		return "0%"
	case pct < 0.05:
		return "~0%"
	default:
		return fmt.Sprintf("%.1f%%", pct)
	}
}
