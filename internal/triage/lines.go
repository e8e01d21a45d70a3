package triage

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/DukeRupert/kyrisk/internal/domain"
	"github.com/DukeRupert/kyrisk/internal/normalize"
)

var (
	// Dash and bullet glyphs, including full-width and Japanese list marks.
	bulletMarkerRe = regexp.MustCompile(`^[-‐‑–—―－−・･•●○◆◇■□▪▫▶►▸*＊·※]+`)

	// (1) / （１） / (12)
	parenOrdinalRe = regexp.MustCompile(`^[(（][0-9０-９]{1,3}[)）]`)

	// 1. / 1) / 1、 / １．  The rune after the punctuation is checked
	// separately so that "3.5m" keeps its number.
	bareOrdinalRe = regexp.MustCompile(`^[0-9０-９]{1,3}[.．)）、,，:：]`)
)

// isCircledNumber reports whether r is an enclosed-number glyph:
// ①-⑳, ⑴-⒇, ⒈-⒛ or ❶-❿.
func isCircledNumber(r rune) bool {
	return (r >= 0x2460 && r <= 0x249B) || (r >= 0x2776 && r <= 0x277F)
}

// StripMarker removes every leading bullet or numbering marker from s, so
// "・(1) ①足場" becomes "足場". Surrounding whitespace is trimmed.
func StripMarker(s string) string {
	for {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		next := stripOne(s)
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
}

func stripOne(s string) string {
	if s == "" {
		return s
	}
	if r, size := utf8.DecodeRuneInString(s); isCircledNumber(r) {
		return s[size:]
	}
	if loc := bulletMarkerRe.FindStringIndex(s); loc != nil {
		return s[loc[1]:]
	}
	if loc := parenOrdinalRe.FindStringIndex(s); loc != nil {
		return s[loc[1]:]
	}
	if loc := bareOrdinalRe.FindStringIndex(s); loc != nil {
		rest := s[loc[1]:]
		if r, _ := utf8.DecodeRuneInString(rest); rest == "" || !unicode.IsDigit(r) {
			return rest
		}
	}
	return s
}

// ParseLines splits a raw text blob into normalized lines. Each line has its
// markers stripped and whitespace collapsed. Lines with fewer than minRunes
// runes left, or with no letters or digits at all, are dropped. Empty input
// yields an empty slice.
func ParseLines(raw string, minRunes int) []domain.Line {
	lines := make([]domain.Line, 0)
	if strings.TrimSpace(raw) == "" {
		return lines
	}

	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	for _, part := range strings.Split(raw, "\n") {
		text := normalize.Display(StripMarker(part))
		if utf8.RuneCountInString(text) < minRunes {
			continue
		}
		key := normalize.Key(text)
		if key == "" {
			continue
		}
		lines = append(lines, domain.Line{Text: text, Key: key})
	}
	return lines
}
