package triage

import (
	"github.com/DukeRupert/kyrisk/internal/domain"
	"github.com/DukeRupert/kyrisk/internal/normalize"
)

// Kind selects which half of a template a backfill draws from.
type Kind int

const (
	KindHazard Kind = iota
	KindCountermeasure
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	if k == KindCountermeasure {
		return "countermeasure"
	}
	return "hazard"
}

// Template is a hazard/countermeasure pair used when the work description
// contains any of its patterns.
type Template struct {
	Patterns       []string `yaml:"patterns,omitempty" json:"patterns,omitempty"`
	Hazard         string   `yaml:"hazard" json:"hazard"`
	Countermeasure string   `yaml:"countermeasure" json:"countermeasure"`
}

func (t Template) text(kind Kind) string {
	if kind == KindCountermeasure {
		return t.Countermeasure
	}
	return t.Hazard
}

// DefaultTemplates returns the built-in work-pattern templates in match order.
func DefaultTemplates() []Template {
	return []Template{
		{
			Patterns:       []string{"法面", "のり面", "吹付", "slope"},
			Hazard:         "法面上部からの土砂・浮石の落下",
			Countermeasure: "作業前に法面上部の浮石を除去し、監視員を配置する",
		},
		{
			Patterns:       []string{"掘削", "床掘", "excavat", "trench"},
			Hazard:         "掘削箇所の土砂崩壊による生き埋め",
			Countermeasure: "土留めを設置し、掘削深さに応じた法勾配を確保する",
		},
		{
			Patterns:       []string{"足場", "高所", "scaffold"},
			Hazard:         "足場上からの墜落",
			Countermeasure: "フルハーネス型墜落制止用器具を常時使用する",
		},
		{
			Patterns:       []string{"重機", "バックホウ", "クレーン", "excavator", "crane"},
			Hazard:         "重機旋回範囲内での作業員との接触",
			Countermeasure: "旋回範囲を立入禁止とし、誘導員を配置する",
		},
		{
			Patterns:       []string{"交通規制", "道路", "片側通行", "road", "traffic"},
			Hazard:         "通行車両の作業帯への進入による接触",
			Countermeasure: "規制材を二重に設置し、交通誘導員を配置する",
		},
		{
			Patterns:       []string{"電気", "配線", "electrical", "wiring"},
			Hazard:         "活線部への接触による感電",
			Countermeasure: "作業前に停電と検電器による無電圧を確認する",
		},
	}
}

// DefaultGenericTemplate returns the entry used once the templates run out.
func DefaultGenericTemplate() Template {
	return Template{
		Hazard:         "作業場所の足元不良による転倒",
		Countermeasure: "作業開始前に作業場所の整理整頓を行う",
	}
}

// BackfillParams is the input of Backfill.
type BackfillParams struct {
	Kind            Kind
	Selected        []domain.ScoredLine // Lines already chosen by triage
	Baseline        []domain.Line       // Human-authored lines templates must not repeat
	WorkDescription string
	Limit           int
	Threshold       float64 // Duplicate cutoff; outside (0,1] uses the config's
	Align           []string
}

// Backfill tops p.Selected up to p.Limit lines. Templates whose patterns
// occur in the work description are tried in table order, skipping any whose
// text near-duplicates a selected or baseline line. If still short, the
// generic entry is repeated. The result depends only on its arguments.
func Backfill(p BackfillParams, cfg Config) []domain.ScoredLine {
	kind, limit, align := p.Kind, p.Limit, p.Align
	out := make([]domain.ScoredLine, len(p.Selected), max(limit, len(p.Selected)))
	copy(out, p.Selected)
	if len(out) >= limit {
		return out
	}

	present := make([]domain.Line, 0, len(out)+len(p.Baseline))
	for _, l := range out {
		present = append(present, domain.Line{Text: l.Text, Key: l.Key})
	}
	present = append(present, p.Baseline...)
	dup := newDuplicateFilter(present, cfg.threshold(p.Threshold), cfg.Containment())

	work := normalize.Compact(p.WorkDescription)
	if work != "" {
		for _, t := range cfg.Templates {
			if len(out) >= limit {
				break
			}
			if !normalize.ContainsAny(work, t.Patterns) {
				continue
			}
			text := normalize.Display(t.text(kind))
			key := normalize.Key(text)
			if key == "" || dup.matches(key) {
				continue
			}
			dup.add(key)
			out = append(out, domain.ScoredLine{
				Text:   text,
				Key:    key,
				Score:  cfg.Keywords.Score(text, align),
				Source: domain.LineSourceTemplate,
			})
		}
	}

	text := normalize.Display(cfg.Generic.text(kind))
	if normalize.Key(text) == "" {
		return out
	}
	generic := domain.ScoredLine{
		Text:   text,
		Key:    normalize.Key(text),
		Score:  cfg.Keywords.Score(text, align),
		Source: domain.LineSourceGeneric,
	}
	for len(out) < limit {
		out = append(out, generic)
	}
	return out
}
