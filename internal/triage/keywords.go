package triage

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/DukeRupert/kyrisk/internal/normalize"
)

// DangerTerm is a keyword that marks a line as describing a concrete hazard.
type DangerTerm struct {
	Term   string  `yaml:"term" json:"term"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// GenericTerm is boilerplate phrasing that says little on its own.
type GenericTerm struct {
	Term    string  `yaml:"term" json:"term"`
	Penalty float64 `yaml:"penalty" json:"penalty"`
}

// LengthPenalty applies to lines with fewer than Under runes.
type LengthPenalty struct {
	Under   int     `yaml:"under" json:"under"`
	Penalty float64 `yaml:"penalty" json:"penalty"`
}

// Alignment rewards countermeasures that share keywords with the selected
// hazards: Bonus per shared keyword, at most Cap in total.
type Alignment struct {
	Bonus float64 `yaml:"bonus" json:"bonus"`
	Cap   float64 `yaml:"cap" json:"cap"`
}

// KeywordTable holds every weight and penalty the line scorer uses.
type KeywordTable struct {
	Danger    []DangerTerm    `yaml:"danger" json:"danger"`
	Generic   []GenericTerm   `yaml:"generic" json:"generic"`
	Short     []LengthPenalty `yaml:"short" json:"short"`
	Alignment Alignment       `yaml:"alignment" json:"alignment"`
}

// DefaultKeywordTable returns the built-in keyword weights.
func DefaultKeywordTable() KeywordTable {
	return KeywordTable{
		Danger: []DangerTerm{
			{Term: "墜落", Weight: 3},
			{Term: "転落", Weight: 3},
			{Term: "fall", Weight: 3},
			{Term: "挟まれ", Weight: 3},
			{Term: "はさまれ", Weight: 3},
			{Term: "巻き込まれ", Weight: 3},
			{Term: "caught", Weight: 3},
			{Term: "崩壊", Weight: 3},
			{Term: "崩落", Weight: 3},
			{Term: "collapse", Weight: 3},
			{Term: "感電", Weight: 3},
			{Term: "electric", Weight: 3},
			{Term: "重機", Weight: 2},
			{Term: "heavy machinery", Weight: 2},
			{Term: "熱中症", Weight: 2},
			{Term: "heat", Weight: 2},
			{Term: "転倒", Weight: 2},
			{Term: "slip", Weight: 2},
			{Term: "飛来", Weight: 2},
			{Term: "落下", Weight: 2},
			{Term: "接触", Weight: 2},
			{Term: "土砂", Weight: 2},
			{Term: "第三者", Weight: 2},
			{Term: "pedestrian", Weight: 2},
			{Term: "車両", Weight: 2},
			{Term: "vehicle", Weight: 2},
			{Term: "吊り荷", Weight: 2},
			{Term: "suspended load", Weight: 2},
			{Term: "開口部", Weight: 2},
		},
		Generic: []GenericTerm{
			{Term: "注意する", Penalty: 1.5},
			{Term: "気をつける", Penalty: 1.5},
			{Term: "気を付ける", Penalty: 1.5},
			{Term: "be careful", Penalty: 1.5},
			{Term: "pay attention", Penalty: 1.5},
			{Term: "安全に", Penalty: 1},
			{Term: "十分に", Penalty: 1},
			{Term: "徹底", Penalty: 1},
			{Term: "safely", Penalty: 1},
		},
		Short: []LengthPenalty{
			{Under: 12, Penalty: 1},
			{Under: 6, Penalty: 1},
		},
		Alignment: Alignment{Bonus: 1.5, Cap: 3},
	}
}

// Validate rejects negative or non-finite weights and empty terms.
func (k KeywordTable) Validate() error {
	for _, d := range k.Danger {
		if normalize.Compact(d.Term) == "" {
			return fmt.Errorf("danger keyword must not be empty")
		}
		if !finite(d.Weight) || d.Weight < 0 {
			return fmt.Errorf("danger keyword %q weight must be >= 0, got %v", d.Term, d.Weight)
		}
	}
	for _, g := range k.Generic {
		if normalize.Compact(g.Term) == "" {
			return fmt.Errorf("generic phrase must not be empty")
		}
		if !finite(g.Penalty) || g.Penalty < 0 {
			return fmt.Errorf("generic phrase %q penalty must be >= 0, got %v", g.Term, g.Penalty)
		}
	}
	for _, s := range k.Short {
		if s.Under < 0 || !finite(s.Penalty) || s.Penalty < 0 {
			return fmt.Errorf("short-line penalty must have under >= 0 and penalty >= 0, got %+v", s)
		}
	}
	if !finite(k.Alignment.Bonus) || k.Alignment.Bonus < 0 {
		return fmt.Errorf("alignment bonus must be >= 0, got %v", k.Alignment.Bonus)
	}
	if !finite(k.Alignment.Cap) || k.Alignment.Cap < 0 {
		return fmt.Errorf("alignment cap must be >= 0, got %v", k.Alignment.Cap)
	}
	return nil
}

// Score returns the base score of a display line plus any alignment bonus.
// Each distinct danger keyword and generic phrase counts once no matter how
// often it appears. Pass a nil align for hazard lines.
func (k KeywordTable) Score(text string, align []string) float64 {
	folded := normalize.Compact(text)

	var score float64
	for _, d := range k.Danger {
		if containsTerm(folded, d.Term) {
			score += d.Weight
		}
	}
	for _, g := range k.Generic {
		if containsTerm(folded, g.Term) {
			score -= g.Penalty
		}
	}
	n := utf8.RuneCountInString(text)
	for _, s := range k.Short {
		if n < s.Under {
			score -= s.Penalty
		}
	}
	return score + k.alignmentBonus(folded, align)
}

func (k KeywordTable) alignmentBonus(folded string, align []string) float64 {
	if len(align) == 0 {
		return 0
	}
	var bonus float64
	seen := make(map[string]struct{}, len(align))
	for _, a := range align {
		term := normalize.Compact(a)
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		if term != "" && strings.Contains(folded, term) {
			bonus += k.Alignment.Bonus
		}
	}
	return math.Min(bonus, k.Alignment.Cap)
}

// ExtractKeywords returns the danger keywords that occur in any of the given
// lines, in table order and without repeats.
func (k KeywordTable) ExtractKeywords(lines []string) []string {
	folded := make([]string, len(lines))
	for i, l := range lines {
		folded[i] = normalize.Compact(l)
	}

	out := make([]string, 0)
	seen := make(map[string]struct{})
	for _, d := range k.Danger {
		term := normalize.Compact(d.Term)
		if _, ok := seen[term]; ok {
			continue
		}
		for _, f := range folded {
			if containsTerm(f, d.Term) {
				seen[term] = struct{}{}
				out = append(out, d.Term)
				break
			}
		}
	}
	return out
}

func containsTerm(folded, term string) bool {
	t := normalize.Compact(term)
	return t != "" && strings.Contains(folded, t)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
