// Package triage reduces freeform hazard and countermeasure text to short,
// de-duplicated, ranked bullet lists.
//
// Candidate text (usually produced by a language model) is split into
// lines, stripped of list markers, checked against human-authored baseline
// text for near-duplicates, scored by keyword tables, and cut to the top N.
// The generation pipeline additionally aligns countermeasures with the
// chosen hazards and backfills short lists from work-pattern templates.
//
// Every function is pure. Config values are read, never written.
package triage

import (
	"github.com/DukeRupert/kyrisk/internal/domain"
)

// Stats counts lines at each stage of one or more triage runs.
type Stats struct {
	Input     int
	Duplicate int
	Baseline  int
	Selected  int
	Template  int
	Generic   int
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Input += other.Input
	s.Duplicate += other.Duplicate
	s.Baseline += other.Baseline
	s.Selected += other.Selected
	s.Template += other.Template
	s.Generic += other.Generic
}

// Triage returns at most limit lines of rawText, highest score first, with
// every line that near-duplicates baselineText removed. align is the set of
// hazard keywords used for the countermeasure alignment bonus; pass nil for
// hazard text. A threshold outside (0,1] falls back to the config's.
func Triage(rawText, baselineText string, limit int, threshold float64, align []string, cfg Config) []domain.ScoredLine {
	lines, _ := TriageWithStats(rawText, baselineText, limit, threshold, align, cfg)
	return lines
}

// TriageWithStats is Triage that also reports per-stage line counts.
func TriageWithStats(rawText, baselineText string, limit int, threshold float64, align []string, cfg Config) ([]domain.ScoredLine, Stats) {
	candidates := ParseLines(rawText, cfg.MinLineRunes)
	baseline := ParseLines(baselineText, cfg.MinLineRunes)

	kept, fs := Filter(candidates, baseline, cfg.threshold(threshold), cfg.Containment())

	scored := make([]domain.ScoredLine, len(kept))
	for i, l := range kept {
		scored[i] = domain.ScoredLine{
			Text:   l.Text,
			Key:    l.Key,
			Score:  cfg.Keywords.Score(l.Text, align),
			Source: domain.LineSourceModel,
		}
	}

	selected := Select(scored, limit)
	return selected, Stats{
		Input:     fs.Input,
		Duplicate: fs.Duplicate,
		Baseline:  fs.Baseline,
		Selected:  len(selected),
	}
}

// Generate runs the generation pipeline. Hazards are triaged and backfilled
// first, with templates held to the same baseline and threshold as the
// model's lines; the danger keywords of the final hazard list then drive the
// alignment bonus for countermeasures, which are triaged and backfilled the
// same way. Third-party measures are triaged only.
func Generate(p domain.GenerateParams, cfg Config) (domain.GenerateResult, Stats) {
	var stats Stats

	hazards, hs := TriageWithStats(p.Suggested.Hazards, p.Baseline.Hazards, p.Limit, p.Threshold, nil, cfg)
	hazards = Backfill(BackfillParams{
		Kind:            KindHazard,
		Selected:        hazards,
		Baseline:        ParseLines(p.Baseline.Hazards, cfg.MinLineRunes),
		WorkDescription: p.WorkDescription,
		Limit:           p.Limit,
		Threshold:       p.Threshold,
	}, cfg)
	stats.Add(hs)

	texts := make([]string, len(hazards))
	for i, h := range hazards {
		texts[i] = h.Text
	}
	keywords := cfg.Keywords.ExtractKeywords(texts)

	measures, ms := TriageWithStats(p.Suggested.Countermeasures, p.Baseline.Countermeasures, p.Limit, p.Threshold, keywords, cfg)
	measures = Backfill(BackfillParams{
		Kind:            KindCountermeasure,
		Selected:        measures,
		Baseline:        ParseLines(p.Baseline.Countermeasures, cfg.MinLineRunes),
		WorkDescription: p.WorkDescription,
		Limit:           p.Limit,
		Threshold:       p.Threshold,
		Align:           keywords,
	}, cfg)
	stats.Add(ms)

	third, ts := TriageWithStats(p.Suggested.ThirdParty, p.Baseline.ThirdParty, p.Limit, p.Threshold, nil, cfg)
	stats.Add(ts)

	for _, list := range [][]domain.ScoredLine{hazards, measures} {
		for _, l := range list {
			switch l.Source {
			case domain.LineSourceTemplate:
				stats.Template++
			case domain.LineSourceGeneric:
				stats.Generic++
			}
		}
	}

	return domain.GenerateResult{
		Hazards:           hazards,
		Countermeasures:   measures,
		ThirdParty:        third,
		AlignmentKeywords: keywords,
	}, stats
}
