package risk

import (
	"fmt"

	"github.com/DukeRupert/kyrisk/internal/domain"
)

// LevelThresholds are the lower bounds of the medium, high and critical
// bands. Anything below Medium is low.
type LevelThresholds struct {
	Medium   float64 `yaml:"medium" json:"medium"`
	High     float64 `yaml:"high" json:"high"`
	Critical float64 `yaml:"critical" json:"critical"`
}

// DefaultLevelThresholds returns the built-in band boundaries.
func DefaultLevelThresholds() LevelThresholds {
	return LevelThresholds{Medium: 10, High: 25, Critical: 50}
}

// LevelFor returns the band a final risk score falls into.
func (l LevelThresholds) LevelFor(finalRisk float64) domain.RiskLevel {
	switch {
	case finalRisk >= l.Critical:
		return domain.RiskLevelCritical
	case finalRisk >= l.High:
		return domain.RiskLevelHigh
	case finalRisk >= l.Medium:
		return domain.RiskLevelMedium
	default:
		return domain.RiskLevelLow
	}
}

// Model bundles every table the numeric engine reads.
type Model struct {
	Coefficients CoefficientTable `yaml:"coefficients" json:"coefficients"`
	Levels       LevelThresholds  `yaml:"levels" json:"levels"`
	Trades       TradeRules       `yaml:"trades" json:"trades"`
	Weights      WeightMatrix     `yaml:"trade_weights" json:"trade_weights"`
}

// DefaultModel returns the built-in tables.
func DefaultModel() Model {
	return Model{
		Coefficients: DefaultCoefficients(),
		Levels:       DefaultLevelThresholds(),
		Trades:       DefaultTradeRules(),
		Weights:      DefaultWeightMatrix(),
	}
}

// Validate checks every table in the model.
func (m Model) Validate() error {
	if err := m.Coefficients.Validate(); err != nil {
		return err
	}
	if !(m.Levels.Medium <= m.Levels.High && m.Levels.High <= m.Levels.Critical) {
		return fmt.Errorf("levels must be ordered medium <= high <= critical, got %+v", m.Levels)
	}
	for i, rule := range m.Trades {
		switch rule.Label {
		case "":
			return fmt.Errorf("trade rule %d has an empty label", i)
		case domain.TradeOther, domain.TradeUnclassified:
			return fmt.Errorf("trade rule %d uses reserved label %q", i, rule.Label)
		}
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("trade rule %q has no keywords", rule.Label)
		}
	}
	return m.Weights.Validate()
}
