// Package domain contains core business types and interfaces.
//
// This file defines the hazard-scoring types: the candidates a KY sheet
// submits for ranking, the site context they are scored against, and the
// per-item breakdown returned to the caller.
package domain

import (
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// Accident Category
// =============================================================================

// Category is the accident type a hazard candidate is tagged with.
type Category string

const (
	CategoryFall               Category = "fall"
	CategoryStruckBy           Category = "struck-by"
	CategoryCollapse           Category = "collapse"
	CategoryCaughtIn           Category = "caught-in"
	CategoryTraffic            Category = "traffic"
	CategorySlip               Category = "slip"
	CategoryHeatStress         Category = "heat-stress"
	CategoryElectricShock      Category = "electric-shock"
	CategoryHazardousSubstance Category = "hazardous-substance"
	CategoryFireExplosion      Category = "fire-explosion"
	CategoryOther              Category = "other"
)

// Categories lists every recognized category in display order.
var Categories = []Category{
	CategoryFall,
	CategoryStruckBy,
	CategoryCollapse,
	CategoryCaughtIn,
	CategoryTraffic,
	CategorySlip,
	CategoryHeatStress,
	CategoryElectricShock,
	CategoryHazardousSubstance,
	CategoryFireExplosion,
	CategoryOther,
}

// categoryAliases maps free-form labels seen on paper KY sheets to a category.
// Matching is by substring, first entry wins.
var categoryAliases = []struct {
	alias    string
	category Category
}{
	{"墜落", CategoryFall},
	{"転落", CategoryFall},
	{"飛来", CategoryStruckBy},
	{"落下", CategoryStruckBy},
	{"激突", CategoryStruckBy},
	{"崩壊", CategoryCollapse},
	{"倒壊", CategoryCollapse},
	{"土砂", CategoryCollapse},
	{"はさまれ", CategoryCaughtIn},
	{"挟まれ", CategoryCaughtIn},
	{"巻き込まれ", CategoryCaughtIn},
	{"交通", CategoryTraffic},
	{"第三者", CategoryTraffic},
	{"転倒", CategorySlip},
	{"熱中症", CategoryHeatStress},
	{"感電", CategoryElectricShock},
	{"酸欠", CategoryHazardousSubstance},
	{"有害", CategoryHazardousSubstance},
	{"火災", CategoryFireExplosion},
	{"爆発", CategoryFireExplosion},
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// IsValid returns true if the category is a recognized value.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory maps arbitrary input to a category. Canonical labels are
// matched case-insensitively, then Japanese aliases by substring. Anything
// else is CategoryOther; this never fails.
func ParseCategory(s string) Category {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if c := Category(trimmed); c.IsValid() {
		return c
	}
	switch trimmed {
	case "collapse/earth-movement", "earth-movement":
		return CategoryCollapse
	case "caught-in/between", "caught-between":
		return CategoryCaughtIn
	case "traffic/third-party", "third-party":
		return CategoryTraffic
	case "fire", "explosion":
		return CategoryFireExplosion
	}
	for _, a := range categoryAliases {
		if strings.Contains(trimmed, a.alias) {
			return a.category
		}
	}
	return CategoryOther
}

// =============================================================================
// Third-Party Exposure
// =============================================================================

// ThirdPartyLevel is how many members of the public pass near the work area.
type ThirdPartyLevel string

const (
	ThirdPartyNone ThirdPartyLevel = "none"
	ThirdPartyFew  ThirdPartyLevel = "few"
	ThirdPartyMany ThirdPartyLevel = "many"
)

// String returns the string representation of the level.
func (l ThirdPartyLevel) String() string {
	return string(l)
}

// ParseThirdPartyLevel normalizes arbitrary text to a level.
// Unrecognized or empty input is ThirdPartyNone.
func ParseThirdPartyLevel(s string) ThirdPartyLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "many", "多い", "多", "high", "heavy", "大":
		return ThirdPartyMany
	case "few", "少ない", "少", "some", "low", "light", "小":
		return ThirdPartyFew
	default:
		return ThirdPartyNone
	}
}

// =============================================================================
// Trade
// =============================================================================

// Trade is the coarse classification of the work being performed.
type Trade string

const (
	// TradeUnclassified is assigned when there is no work description at all.
	TradeUnclassified Trade = "unclassified"

	// TradeOther is assigned when a description exists but no rule matched.
	TradeOther Trade = "other"
)

// String returns the string representation of the trade.
func (t Trade) String() string {
	return string(t)
}

// =============================================================================
// Risk Level
// =============================================================================

// RiskLevel is the display band a final risk score falls into.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// String returns the string representation of the level.
func (l RiskLevel) String() string {
	return string(l)
}

// =============================================================================
// Scoring Input
// =============================================================================

// HazardCandidate is one hazard/countermeasure row of a KY sheet.
type HazardCandidate struct {
	Hazard         string   `json:"hazard"`
	Countermeasure string   `json:"countermeasure"`
	Likelihood     int      `json:"likelihood"` // 1-5
	Severity       int      `json:"severity"`   // 1-5
	Category       Category `json:"category"`
}

// WeatherObservation is the single weather snapshot applied to a work day.
// Each field is optional.
type WeatherObservation struct {
	PrecipitationMM *float64 `json:"precipitation_mm,omitempty"`
	WindSpeedMS     *float64 `json:"wind_speed_ms,omitempty"`
	TemperatureC    *float64 `json:"temperature_c,omitempty"`
}

// RiskContext is the per-call site context shared by every candidate.
type RiskContext struct {
	ThirdParty      string              // Raw third-party exposure text
	WorkerCount     *int                // Workers on site, nil when unknown
	Weather         *WeatherObservation // Applied weather, nil when none
	PhotoScore      *float64            // Photo-condition score in [0,1], nil when none
	WorkDescription string              // Used only for trade classification
}

// =============================================================================
// Scoring Output
// =============================================================================

// ScoredHazard is a candidate together with its full risk breakdown.
type ScoredHazard struct {
	HazardCandidate

	BaseRisk         int       `json:"base_risk"`
	ThirdPartyFactor float64   `json:"third_party_factor"`
	WeatherFactor    float64   `json:"weather_factor"`
	DensityFactor    float64   `json:"density_factor"`
	PhotoFactor      float64   `json:"photo_factor"`
	TradeFactor      float64   `json:"trade_factor"`
	Trade            Trade     `json:"trade"`
	FinalRisk        float64   `json:"final_risk"`
	Level            RiskLevel `json:"level"`
}

// ScoreParams is the input of one scoring run.
type ScoreParams struct {
	Candidates []HazardCandidate
	Context    RiskContext
	PhotoKey   string // Stored photo scored when Context.PhotoScore is nil
}

// ScoreResult is the output of one scoring run.
type ScoreResult struct {
	RequestID   uuid.UUID      `json:"request_id"`
	RulesetHash string         `json:"ruleset_hash"`
	Trade       Trade          `json:"trade"`
	Results     []ScoredHazard `json:"results"`
}
