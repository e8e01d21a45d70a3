// Package risk converts hazard candidates plus site context into ranked
// numeric risk scores.
//
// Everything here is a pure function of its arguments. Tables are plain
// values supplied by the caller and are never mutated, so one Model may be
// shared by any number of concurrent calls.
package risk

import (
	"fmt"
	"math"

	"github.com/DukeRupert/kyrisk/internal/domain"
)

// Default coefficient values.
const (
	DefaultThirdPartyNone = 1.0
	DefaultThirdPartyFew  = 1.2
	DefaultThirdPartyMany = 1.5

	DefaultRainWeight     = 0.2
	DefaultWindWeight     = 0.1
	DefaultHeatWeight     = 0.08
	DefaultWeatherCeiling = 1.5

	DefaultDensityWeight   = 0.3
	DefaultDensityBaseline = 10.0
	DefaultDensityCeiling  = 1.5

	DefaultPhotoWeight  = 0.5
	DefaultPhotoFloor   = 1.0
	DefaultPhotoCeiling = 1.5
)

// Weather index saturation points. An index reaches 1.0 at these values.
const (
	rainSaturationMM  = 6.0
	windSaturationMS  = 10.0
	heatOnsetC        = 28.0
	heatSaturationDeg = 5.0
)

// ThirdPartyTable maps each exposure level to its multiplier.
type ThirdPartyTable struct {
	None float64 `yaml:"none" json:"none"`
	Few  float64 `yaml:"few" json:"few"`
	Many float64 `yaml:"many" json:"many"`
}

// FactorFor returns the multiplier for a level. Unknown levels use None.
func (t ThirdPartyTable) FactorFor(level domain.ThirdPartyLevel) float64 {
	switch level {
	case domain.ThirdPartyFew:
		return t.Few
	case domain.ThirdPartyMany:
		return t.Many
	default:
		return t.None
	}
}

// WeatherCoefficients weights the rain, wind and heat indices.
type WeatherCoefficients struct {
	RainWeight float64 `yaml:"rain_weight" json:"rain_weight"`
	WindWeight float64 `yaml:"wind_weight" json:"wind_weight"`
	HeatWeight float64 `yaml:"heat_weight" json:"heat_weight"`
	Ceiling    float64 `yaml:"ceiling" json:"ceiling"`
}

// DensityCoefficients scales worker count into a crowding multiplier.
type DensityCoefficients struct {
	Weight   float64 `yaml:"weight" json:"weight"`
	Baseline float64 `yaml:"baseline" json:"baseline"`
	Ceiling  float64 `yaml:"ceiling" json:"ceiling"`
}

// PhotoCoefficients scales the photo-condition score into a multiplier.
type PhotoCoefficients struct {
	Weight  float64 `yaml:"weight" json:"weight"`
	Floor   float64 `yaml:"floor" json:"floor"`
	Ceiling float64 `yaml:"ceiling" json:"ceiling"`
}

// CoefficientTable holds every constant governing the context multipliers.
type CoefficientTable struct {
	ThirdParty ThirdPartyTable     `yaml:"third_party" json:"third_party"`
	Weather    WeatherCoefficients `yaml:"weather" json:"weather"`
	Density    DensityCoefficients `yaml:"density" json:"density"`
	Photo      PhotoCoefficients   `yaml:"photo" json:"photo"`
}

// DefaultCoefficients returns the built-in coefficient table.
func DefaultCoefficients() CoefficientTable {
	return CoefficientTable{
		ThirdParty: ThirdPartyTable{
			None: DefaultThirdPartyNone,
			Few:  DefaultThirdPartyFew,
			Many: DefaultThirdPartyMany,
		},
		Weather: WeatherCoefficients{
			RainWeight: DefaultRainWeight,
			WindWeight: DefaultWindWeight,
			HeatWeight: DefaultHeatWeight,
			Ceiling:    DefaultWeatherCeiling,
		},
		Density: DensityCoefficients{
			Weight:   DefaultDensityWeight,
			Baseline: DefaultDensityBaseline,
			Ceiling:  DefaultDensityCeiling,
		},
		Photo: PhotoCoefficients{
			Weight:  DefaultPhotoWeight,
			Floor:   DefaultPhotoFloor,
			Ceiling: DefaultPhotoCeiling,
		},
	}
}

// Validate rejects tables that would break the multiplier invariants.
func (c CoefficientTable) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"third_party.none", c.ThirdParty.None},
		{"third_party.few", c.ThirdParty.Few},
		{"third_party.many", c.ThirdParty.Many},
		{"weather.rain_weight", c.Weather.RainWeight},
		{"weather.wind_weight", c.Weather.WindWeight},
		{"weather.heat_weight", c.Weather.HeatWeight},
		{"density.weight", c.Density.Weight},
		{"photo.weight", c.Photo.Weight},
	}
	for _, chk := range checks {
		if !isFinite(chk.value) || chk.value < 0 {
			return fmt.Errorf("coefficient %s must be a non-negative number, got %v", chk.name, chk.value)
		}
	}
	if !isFinite(c.Weather.Ceiling) || c.Weather.Ceiling < 1 {
		return fmt.Errorf("weather.ceiling must be >= 1, got %v", c.Weather.Ceiling)
	}
	if !isFinite(c.Density.Baseline) || c.Density.Baseline <= 0 {
		return fmt.Errorf("density.baseline must be > 0, got %v", c.Density.Baseline)
	}
	if !isFinite(c.Density.Ceiling) || c.Density.Ceiling < 1 {
		return fmt.Errorf("density.ceiling must be >= 1, got %v", c.Density.Ceiling)
	}
	if !isFinite(c.Photo.Floor) || c.Photo.Floor < 1 {
		return fmt.Errorf("photo.floor must be >= 1, got %v", c.Photo.Floor)
	}
	if !isFinite(c.Photo.Ceiling) || c.Photo.Ceiling < c.Photo.Floor {
		return fmt.Errorf("photo.ceiling must be >= photo.floor, got %v", c.Photo.Ceiling)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// clamp bounds v to [lo, hi]. NaN resolves to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
