// Package normalize folds free text into forms suitable for keyword matching
// and similarity checks.
//
// Site text mixes full-width and half-width characters, Latin and Japanese
// script, and arbitrary punctuation. Both forms below apply NFKC first so
// that "ＫＹ　活動" and "KY 活動" compare equal.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Key returns the comparison form of s: NFKC-normalized, case-folded, with
// every rune that is not a letter, digit or combining mark removed.
// It is never used for display.
func Key(s string) string {
	if s == "" {
		return ""
	}
	folded := folder.String(norm.NFKC.String(s))
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Compact returns s NFKC-normalized and case-folded with all whitespace
// removed. Punctuation is kept, so keyword tables may contain it.
func Compact(s string) string {
	if s == "" {
		return ""
	}
	folded := folder.String(norm.NFKC.String(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, folded)
}

// Display collapses runs of whitespace (including ideographic spaces) to a
// single ASCII space and trims both ends. Character width is left alone.
func Display(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ContainsAny reports whether the folded haystack contains the Compact form
// of any needle. Empty needles never match.
func ContainsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if k := Compact(n); k != "" && strings.Contains(haystack, k) {
			return true
		}
	}
	return false
}
