// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

// Package query builds parameterized WHERE clauses for the review store.
// Column names passed to the builder must come from code, never from
// request input; every value is bound as a placeholder argument.
package query

import (
	"strings"
)

// likeEscaper escapes LIKE wildcards for use with ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// WhereBuilder accumulates AND-joined conditions and their arguments.
//
//	wb := query.NewWhereBuilder()
//	wb.AddEquals("p.category", "book").AddContains("p.title_search", "dune")
//	where, args := wb.BuildWithPrefix()
//	// WHERE p.category = ? AND p.title_search LIKE ? ESCAPE '\'
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{}
}

// AddClause adds a raw condition with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEquals adds "column = ?".
func (wb *WhereBuilder) AddEquals(column string, value interface{}) *WhereBuilder {
	return wb.AddClause(column+" = ?", value)
}

// AddContains adds a substring match. Wildcards in term match literally.
func (wb *WhereBuilder) AddContains(column, term string) *WhereBuilder {
	return wb.AddClause(column+` LIKE ? ESCAPE '\'`, "%"+EscapeLike(term)+"%")
}

// AddIn adds "column IN (?, ...)". An empty list adds a condition that
// matches nothing, so a query never silently widens to the whole table.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb.AddClause("1=0")
	}
	for _, v := range values {
		wb.args = append(wb.args, v)
	}
	wb.clauses = append(wb.clauses, column+" IN ("+Placeholders(len(values))+")")
	return wb
}

// Build returns the conditions joined with AND, or "1=1" when there are none.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix is Build with a leading "WHERE ".
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	where, args := wb.Build()
	return "WHERE " + where, args
}

func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// EscapeLike escapes \, % and _ for a LIKE pattern using ESCAPE '\'.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Placeholders returns n comma-separated "?" markers.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// Chunks splits ids into slices of at most size elements. The slices
// share ids' backing array.
func Chunks(ids []string, size int) [][]string {
	if size <= 0 || len(ids) <= size {
		if len(ids) == 0 {
			return nil
		}
		return [][]string{ids}
	}
	out := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		out = append(out, ids[start:end])
	}
	return out
}
