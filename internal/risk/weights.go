package risk

import (
	"fmt"

	"github.com/DukeRupert/kyrisk/internal/domain"
)

// NeutralWeight is returned for any (trade, category) pair not in the matrix.
const NeutralWeight = 1.0

// WeightMatrix maps trade → category → multiplier.
type WeightMatrix map[domain.Trade]map[domain.Category]float64

// Lookup returns the multiplier for a trade and category. A missing trade or
// a missing category within the trade both resolve to NeutralWeight.
func (m WeightMatrix) Lookup(trade domain.Trade, category domain.Category) float64 {
	byCategory, ok := m[trade]
	if !ok {
		return NeutralWeight
	}
	w, ok := byCategory[category]
	if !ok {
		return NeutralWeight
	}
	return w
}

// Validate rejects non-positive or non-finite weights.
func (m WeightMatrix) Validate() error {
	for trade, byCategory := range m {
		for category, w := range byCategory {
			if !isFinite(w) || w <= 0 {
				return fmt.Errorf("trade weight %s/%s must be > 0, got %v", trade, category, w)
			}
		}
	}
	return nil
}

// DefaultWeightMatrix returns the built-in trade-category weights.
func DefaultWeightMatrix() WeightMatrix {
	return WeightMatrix{
		TradeSlopeWork: {
			domain.CategoryCollapse: 1.35,
			domain.CategoryFall:     1.2,
			domain.CategoryStruckBy: 1.1,
		},
		TradeEarthwork: {
			domain.CategoryCollapse: 1.3,
			domain.CategoryCaughtIn: 1.2,
			domain.CategoryTraffic:  1.1,
		},
		TradeScaffolding: {
			domain.CategoryFall:     1.4,
			domain.CategoryStruckBy: 1.15,
		},
		TradeSteelErection: {
			domain.CategoryFall:     1.4,
			domain.CategoryStruckBy: 1.3,
			domain.CategoryCaughtIn: 1.1,
		},
		TradeConcrete: {
			domain.CategoryCaughtIn:           1.15,
			domain.CategoryFall:               1.1,
			domain.CategoryHazardousSubstance: 1.1,
		},
		TradePaving: {
			domain.CategoryTraffic:    1.3,
			domain.CategoryHeatStress: 1.2,
			domain.CategoryCaughtIn:   1.15,
		},
		TradeDemolition: {
			domain.CategoryStruckBy:           1.3,
			domain.CategoryCollapse:           1.25,
			domain.CategoryHazardousSubstance: 1.2,
		},
		TradeElectrical: {
			domain.CategoryElectricShock: 1.4,
			domain.CategoryFireExplosion: 1.15,
			domain.CategoryFall:          1.1,
		},
		TradeRoadWork: {
			domain.CategoryTraffic:  1.4,
			domain.CategoryStruckBy: 1.1,
		},
	}
}
