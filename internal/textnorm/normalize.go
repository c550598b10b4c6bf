// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

// Package textnorm canonicalizes free text for search matching.
//
// Both stored product fields (title, creator) and user search terms pass
// through Normalize, so equality and substring comparison of the results
// ignore case, accents, punctuation, whitespace, name order and a leading
// "The":
//
//	textnorm.Normalize("Swift, Taylor")  // "taylorswift"
//	textnorm.Normalize("Céline Dion")    // "celinedion"
//	textnorm.Normalize("The Offspring")  // "offspring"
//
// The "the" removal is a plain substring removal, not a word match:
// "Theater" becomes "ater". Matching only needs both sides to be
// normalized the same way.
package textnorm

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nameSeparator splits "Lastname, Firstname".
const nameSeparator = ", "

// stopword is removed wherever it occurs after folding.
const stopword = "the"

// letters without a canonical decomposition into base + mark
var foldedLetters = map[rune]string{
	'ø': "o",
	'æ': "ae",
	'œ': "oe",
	'ł': "l",
	'đ': "d",
	'ð': "d",
	'þ': "th",
	'ı': "i",
}

// Normalize returns the search form of text.
//
// The steps run in a fixed order: name reordering, case folding,
// diacritic stripping, removal of everything except letters, digits and
// underscore, then removal of "the" until none is left. Normalize is
// idempotent.
func Normalize(text string) string {
	text = reorderName(text)

	// Casers and transform chains keep state and are not shared.
	folded := cases.Fold().String(text)

	stripped, _, err := transform.String(stripMarks(), folded)
	if err != nil {
		stripped = folded
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if repl, ok := foldedLetters[r]; ok {
			b.WriteString(repl)
			continue
		}
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	return removeStopword(b.String())
}

// NormalizeValue stringifies v and normalizes the result.
func NormalizeValue(v any) string {
	if s, ok := v.(string); ok {
		return Normalize(s)
	}
	return Normalize(fmt.Sprint(v))
}

// Equal reports whether a and b normalize to the same search form.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

func reorderName(text string) string {
	parts := strings.Split(text, nameSeparator)
	if len(parts) != 2 {
		return text
	}
	return parts[1] + " " + parts[0]
}

func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// removeStopword deletes stopword until a fixpoint: "tthehe" -> "".
func removeStopword(s string) string {
	for strings.Contains(s, stopword) {
		s = strings.ReplaceAll(s, stopword, "")
	}
	return s
}
