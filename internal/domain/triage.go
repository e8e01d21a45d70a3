package domain

// LineSource records where a triaged line came from.
type LineSource string

const (
	// LineSourceModel is text produced upstream (usually by the language model).
	LineSourceModel LineSource = "model"

	// LineSourceTemplate is a backfilled line from the work-pattern template table.
	LineSourceTemplate LineSource = "template"

	// LineSourceGeneric is the fixed fallback entry used when templates run out.
	LineSourceGeneric LineSource = "generic"
)

// Line is one normalized line of hazard or countermeasure text.
type Line struct {
	Text string // Display form: markers stripped, whitespace collapsed
	Key  string // Comparison form: folded, punctuation and spaces removed
}

// ScoredLine is a line together with its relevance score.
type ScoredLine struct {
	Text   string     `json:"text"`
	Key    string     `json:"-"`
	Score  float64    `json:"score"`
	Source LineSource `json:"source"`
}

// KYText is one party's freeform hazard, countermeasure and third-party text.
type KYText struct {
	Hazards         string `json:"hazards"`
	Countermeasures string `json:"countermeasures"`
	ThirdParty      string `json:"third_party,omitempty"`
}

// GenerateParams is the input of the generation pipeline.
type GenerateParams struct {
	WorkDescription string
	Suggested       KYText // Raw candidate text from the generator
	Baseline        KYText // Human-authored text used only for duplicate suppression
	Limit           int
	Threshold       float64
}

// GenerateResult is the output of the generation pipeline.
type GenerateResult struct {
	Hazards           []ScoredLine `json:"hazards"`
	Countermeasures   []ScoredLine `json:"countermeasures"`
	ThirdParty        []ScoredLine `json:"third_party"`
	AlignmentKeywords []string     `json:"alignment_keywords"`
}
