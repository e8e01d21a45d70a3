package risk

import (
	"math"

	"github.com/DukeRupert/kyrisk/internal/domain"
)

const (
	minRating = 1
	maxRating = 5
)

// ThirdPartyFactor normalizes raw exposure text and looks up its multiplier.
func ThirdPartyFactor(raw string, table ThirdPartyTable) float64 {
	return table.FactorFor(domain.ParseThirdPartyLevel(raw))
}

// WeatherFactor combines rain, wind and heat indices into one multiplier in
// [1, ceiling]. No observation at all is exactly 1.0.
func WeatherFactor(obs *domain.WeatherObservation, c WeatherCoefficients) float64 {
	if obs == nil {
		return 1.0
	}
	rain := index(obs.PrecipitationMM, 0, rainSaturationMM)
	wind := index(obs.WindSpeedMS, 0, windSaturationMS)
	heat := index(obs.TemperatureC, heatOnsetC, heatSaturationDeg)

	raw := 1 + rain*c.RainWeight + wind*c.WindWeight + heat*c.HeatWeight
	return clamp(raw, 1.0, upperBound(c.Ceiling, 1.0))
}

// index maps an optional reading to [0,1]: (v - onset) / span, clamped.
// Missing and non-finite-low readings are 0.
func index(v *float64, onset, span float64) float64 {
	if v == nil {
		return 0
	}
	return clamp((*v-onset)/span, 0, 1)
}

// DensityFactor grows with worker count relative to the baseline crew size.
// Unknown or non-positive counts are exactly 1.0.
func DensityFactor(workers *int, c DensityCoefficients) float64 {
	if workers == nil || *workers <= 0 {
		return 1.0
	}
	if !isFinite(c.Baseline) || c.Baseline <= 0 {
		return 1.0
	}
	raw := 1 + (float64(*workers)/c.Baseline)*c.Weight
	return clamp(raw, 1.0, upperBound(c.Ceiling, 1.0))
}

// PhotoFactor scales a photo-condition score into [floor, ceiling].
// A missing score is the floor: absence is the least informative value,
// not a neutral one.
func PhotoFactor(score *float64, c PhotoCoefficients) float64 {
	floor := c.Floor
	if !isFinite(floor) || floor < 1 {
		floor = 1.0
	}
	if score == nil {
		return floor
	}
	raw := 1 + clamp(*score, 0, 1)*c.Weight
	return clamp(raw, floor, upperBound(c.Ceiling, floor))
}

// upperBound returns ceiling unless it is unusable, in which case floor.
func upperBound(ceiling, floor float64) float64 {
	if !isFinite(ceiling) || ceiling < floor {
		return floor
	}
	return ceiling
}

// clampRating forces a likelihood or severity rating into [1,5].
func clampRating(r int) int {
	if r < minRating {
		return minRating
	}
	if r > maxRating {
		return maxRating
	}
	return r
}

// Calculate scores one candidate against the context. The work description
// is classified on every call; use Score for batches.
func Calculate(c domain.HazardCandidate, rc domain.RiskContext, m Model) domain.ScoredHazard {
	return calculate(c, m.Trades.Classify(rc.WorkDescription), rc, m)
}

func calculate(c domain.HazardCandidate, trade domain.Trade, rc domain.RiskContext, m Model) domain.ScoredHazard {
	c.Likelihood = clampRating(c.Likelihood)
	c.Severity = clampRating(c.Severity)
	if !c.Category.IsValid() {
		c.Category = domain.ParseCategory(string(c.Category))
	}

	out := domain.ScoredHazard{
		HazardCandidate:  c,
		BaseRisk:         c.Likelihood * c.Severity,
		ThirdPartyFactor: ThirdPartyFactor(rc.ThirdParty, m.Coefficients.ThirdParty),
		WeatherFactor:    WeatherFactor(rc.Weather, m.Coefficients.Weather),
		DensityFactor:    DensityFactor(rc.WorkerCount, m.Coefficients.Density),
		PhotoFactor:      PhotoFactor(rc.PhotoScore, m.Coefficients.Photo),
		TradeFactor:      m.Weights.Lookup(trade, c.Category),
		Trade:            trade,
	}

	product := float64(out.BaseRisk) *
		out.ThirdPartyFactor *
		out.WeatherFactor *
		out.DensityFactor *
		out.PhotoFactor *
		out.TradeFactor
	if !isFinite(product) {
		product = 0
	}
	out.FinalRisk = math.Max(0, round2(product))
	out.Level = m.Levels.LevelFor(out.FinalRisk)
	return out
}
