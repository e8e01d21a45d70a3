package triage

import (
	"sort"

	"github.com/DukeRupert/kyrisk/internal/domain"
)

// Select orders lines by score, highest first, and keeps the first limit.
// Equal scores keep their input order. A limit of zero or less selects
// nothing.
func Select(lines []domain.ScoredLine, limit int) []domain.ScoredLine {
	if limit <= 0 {
		return []domain.ScoredLine{}
	}
	sorted := make([]domain.ScoredLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
