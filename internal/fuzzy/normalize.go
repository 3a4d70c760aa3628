// Copyright In Iure, 2026. All rights reserved.

// Package fuzzy implements text normalization and the similarity scorers
// used for approximate record matching. Scorers operate on normalized
// strings and return an integer similarity in [0,100].
package fuzzy

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, removes combining marks, and recomposes.
// This turns Š into S, ū into u, and so on.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// asciiFold maps letters that do not decompose into a base letter plus a
// combining mark. These survive stripMarks unchanged and need an explicit
// mapping to their closest ASCII equivalent.
var asciiFold = map[rune]string{
	'ł': "l", 'Ł': "L",
	'đ': "d", 'Đ': "D",
	'ð': "d", 'Ð': "D",
	'ø': "o", 'Ø': "O",
	'æ': "ae", 'Æ': "AE",
	'œ': "oe", 'Œ': "OE",
	'ß': "ss",
	'þ': "th", 'Þ': "TH",
}

// Normalize canonicalizes text for comparison: trims, lowercases,
// transliterates accented characters to ASCII, replaces punctuation with
// spaces, and collapses whitespace runs to a single space. Letters with
// no ASCII equivalent pass through unchanged. Normalize is total and
// idempotent; an empty or all-punctuation input yields "".
func Normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))

	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case asciiFold[r] != "":
			b.WriteString(asciiFold[r])
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			// Punctuation, symbols, and whitespace all separate tokens.
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
