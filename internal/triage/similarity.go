package triage

import (
	"strings"
	"unicode/utf8"

	"github.com/DukeRupert/kyrisk/internal/domain"
	"github.com/DukeRupert/kyrisk/internal/normalize"
)

// shingleSet is the set of 2-rune substrings of a comparison key.
type shingleSet map[string]struct{}

// shingles builds the bigram set of key. A one-rune key yields a set holding
// just that rune; an empty key yields an empty set.
func shingles(key string) shingleSet {
	runes := []rune(key)
	set := make(shingleSet, len(runes))
	switch len(runes) {
	case 0:
		return set
	case 1:
		set[key] = struct{}{}
		return set
	}
	for i := 0; i+1 < len(runes); i++ {
		set[string(runes[i:i+2])] = struct{}{}
	}
	return set
}

// jaccard is |a ∩ b| / |a ∪ b|, or 0 when either set is empty.
func jaccard(a, b shingleSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	shared := 0
	for s := range small {
		if _, ok := large[s]; ok {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}

// Similarity returns the bigram Jaccard similarity of two lines, compared in
// their folded comparison form. Any line with letters or digits has
// similarity 1 with itself; two lines without any have similarity 0.
func Similarity(a, b string) float64 {
	return jaccard(shingles(normalize.Key(a)), shingles(normalize.Key(b)))
}

// baselineEntry caches the shingle set of one human-authored line.
type baselineEntry struct {
	key      string
	shingles shingleSet
}

// Containment is the rule under which a line that contains another counts
// as its duplicate: the contained key has at least MinRunes runes and covers
// at least Ratio of the containing key's runes.
type Containment struct {
	MinRunes int
	Ratio    float64
}

// duplicateFilter decides whether candidate lines repeat the baseline.
type duplicateFilter struct {
	baseline    []baselineEntry
	threshold   float64
	containment Containment
}

func newDuplicateFilter(baseline []domain.Line, threshold float64, c Containment) *duplicateFilter {
	f := &duplicateFilter{
		baseline:    make([]baselineEntry, 0, len(baseline)),
		threshold:   threshold,
		containment: c,
	}
	for _, l := range baseline {
		f.add(l.Key)
	}
	return f
}

func (f *duplicateFilter) add(key string) {
	f.baseline = append(f.baseline, baselineEntry{key: key, shingles: shingles(key)})
}

// matches reports whether key is a near-duplicate of any baseline line:
// bigram similarity at or above the threshold, or one key containing the
// other under the containment rule.
func (f *duplicateFilter) matches(key string) bool {
	if key == "" {
		return false
	}
	set := shingles(key)
	for _, b := range f.baseline {
		if jaccard(set, b.shingles) >= f.threshold {
			return true
		}
		if f.containment.holds(key, b.key) {
			return true
		}
	}
	return false
}

// holds reports whether either key contains the other under c.
func (c Containment) holds(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}
	n := utf8.RuneCountInString(short)
	if n < c.MinRunes {
		return false
	}
	if float64(n) < c.Ratio*float64(utf8.RuneCountInString(long)) {
		return false
	}
	return strings.Contains(long, short)
}

// FilterStats counts what happened to candidate lines in Filter.
type FilterStats struct {
	Input     int // Lines parsed from the candidate text
	Duplicate int // Dropped as exact repeats of an earlier candidate
	Baseline  int // Dropped as near-duplicates of a baseline line
}

// Filter collapses exact duplicates among candidates (by comparison form,
// first occurrence wins) and removes every candidate that near-duplicates a
// baseline line. Order of the survivors is preserved.
func Filter(candidates, baseline []domain.Line, threshold float64, c Containment) ([]domain.Line, FilterStats) {
	stats := FilterStats{Input: len(candidates)}
	dup := newDuplicateFilter(baseline, threshold, c)

	seen := make(map[string]struct{}, len(candidates))
	out := make([]domain.Line, 0, len(candidates))
	for _, l := range candidates {
		if _, ok := seen[l.Key]; ok {
			stats.Duplicate++
			continue
		}
		seen[l.Key] = struct{}{}

		if dup.matches(l.Key) {
			stats.Baseline++
			continue
		}
		out = append(out, l)
	}
	return out, stats
}
