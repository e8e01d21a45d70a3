package risk

import (
	"sort"

	"github.com/DukeRupert/kyrisk/internal/domain"
)

// Score computes every candidate independently against one shared context
// and returns them ordered by FinalRisk, highest first. The sort is stable:
// candidates with equal FinalRisk keep their input order, because downstream
// display expects first-entered ties to surface first.
func Score(candidates []domain.HazardCandidate, rc domain.RiskContext, m Model) []domain.ScoredHazard {
	trade := m.Trades.Classify(rc.WorkDescription)

	scored := make([]domain.ScoredHazard, len(candidates))
	for i, c := range candidates {
		scored[i] = calculate(c, trade, rc, m)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].FinalRisk > scored[j].FinalRisk
	})
	return scored
}
