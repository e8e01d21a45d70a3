package domain

import "github.com/google/uuid"

// Input limits shared by every KY operation.
const (
	MaxCandidates = 500        // Hazard candidates per scoring run
	MaxTextBytes  = 200 * 1024 // Combined freeform text per request
)

// TriageParams is the input of a single triage run.
type TriageParams struct {
	RawText           string
	BaselineText      string
	Limit             *int     // nil means the ruleset default
	Threshold         *float64 // nil means the ruleset default
	AlignmentKeywords []string
}

// TriageResult is the output of a single triage run.
type TriageResult struct {
	RulesetHash string       `json:"ruleset_hash"`
	Lines       []ScoredLine `json:"lines"`
}

// KYGenerateParams asks the generator for a KY draft and triages it
// against the human baseline.
type KYGenerateParams struct {
	WorkDescription string
	SiteNotes       string
	ThirdParty      string
	Weather         *WeatherObservation
	Baseline        KYText
	Limit           *int
	Threshold       *float64
}

// KYGenerateResult is a triaged KY draft.
type KYGenerateResult struct {
	RequestID   uuid.UUID `json:"request_id"`
	RulesetHash string    `json:"ruleset_hash"`
	GenerateResult
}

// ReviewParams carries human and AI text as separate sub-objects together
// with the day's weather and photo readings.
type ReviewParams struct {
	Human      KYText
	AI         KYText
	Weather    *WeatherObservation
	PhotoScore *float64
	Limit      *int
	Threshold  *float64
}

// ReviewResult is the AI text that survives review, plus the stand-alone
// weather and photo factors for the day.
type ReviewResult struct {
	RulesetHash     string       `json:"ruleset_hash"`
	Hazards         []ScoredLine `json:"hazards"`
	Countermeasures []ScoredLine `json:"countermeasures"`
	ThirdParty      []ScoredLine `json:"third_party"`
	WeatherFactor   float64      `json:"weather_factor"`
	PhotoFactor     float64      `json:"photo_factor"`
}
