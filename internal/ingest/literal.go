// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package ingest

import (
	"strings"

	"github.com/goccy/go-json"
)

// ParseLiteralArray decodes an array written as JSON or as a Python-style
// literal (single-quoted strings, True/False/None). Only flat arrays of
// scalars are accepted in the literal form. ok is false for anything else.
func ParseLiteralArray(s string) (items []interface{}, ok bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, false
	}

	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	if err := dec.Decode(&items); err == nil {
		if items == nil {
			items = []interface{}{}
		}
		return items, true
	}

	p := literalParser{src: s[1 : len(s)-1]}
	return p.parse()
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) parse() ([]interface{}, bool) {
	items := []interface{}{}
	p.skipSpace()
	if p.pos == len(p.src) {
		return items, true
	}

	for {
		p.skipSpace()
		item, ok := p.scalar()
		if !ok {
			return nil, false
		}
		items = append(items, item)

		p.skipSpace()
		if p.pos == len(p.src) {
			return items, true
		}
		if p.src[p.pos] != ',' {
			return nil, false
		}
		p.pos++
		p.skipSpace()
		// Trailing comma.
		if p.pos == len(p.src) {
			return items, true
		}
	}
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) && strings.IndexByte(" \t\r\n", p.src[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *literalParser) scalar() (interface{}, bool) {
	if p.pos >= len(p.src) {
		return nil, false
	}
	switch c := p.src[p.pos]; c {
	case '\'', '"':
		return p.quoted(c)
	}

	end := p.pos
	for end < len(p.src) && p.src[end] != ',' {
		end++
	}
	word := strings.TrimSpace(p.src[p.pos:end])
	p.pos = end

	switch word {
	case "None", "null":
		return nil, true
	case "True", "true":
		return true, true
	case "False", "false":
		return false, true
	}
	n := json.Number(word)
	if _, err := n.Float64(); err != nil {
		return nil, false
	}
	return n, true
}

func (p *literalParser) quoted(quote byte) (interface{}, bool) {
	p.pos++ // opening quote
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '\\' && p.pos+1 < len(p.src):
			p.pos++
			b.WriteByte(unescape(p.src[p.pos]))
		case c == quote:
			p.pos++
			return b.String(), true
		default:
			b.WriteByte(c)
		}
		p.pos++
	}
	return nil, false
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	default:
		return c
	}
}
