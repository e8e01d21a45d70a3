package triage

import (
	"fmt"
)

// Defaults for Config.
const (
	DefaultThreshold    = 0.72
	DefaultLimit        = 5
	DefaultMinLineRunes = 3

	// DefaultContainmentRatio is the share of the longer key a contained
	// key must cover to count as a duplicate.
	DefaultContainmentRatio = 0.5
)

// Config holds every table the text engine reads. It is a plain value;
// nothing in this package mutates it.
type Config struct {
	Threshold    float64 `yaml:"threshold" json:"threshold"`
	Limit        int     `yaml:"limit" json:"limit"`
	MinLineRunes int     `yaml:"min_line_runes" json:"min_line_runes"`
	// ContainmentRatio guards the containment rule; see Containment.
	ContainmentRatio float64      `yaml:"containment_ratio" json:"containment_ratio"`
	Keywords         KeywordTable `yaml:"keywords" json:"keywords"`
	Templates        []Template   `yaml:"templates" json:"templates"`
	Generic          Template     `yaml:"generic" json:"generic"`
}

// DefaultConfig returns the built-in text tables.
func DefaultConfig() Config {
	return Config{
		Threshold:        DefaultThreshold,
		Limit:            DefaultLimit,
		MinLineRunes:     DefaultMinLineRunes,
		ContainmentRatio: DefaultContainmentRatio,
		Keywords:         DefaultKeywordTable(),
		Templates:        DefaultTemplates(),
		Generic:          DefaultGenericTemplate(),
	}
}

// Validate checks the config for values the engine cannot work with.
func (c Config) Validate() error {
	if !validThreshold(c.Threshold) {
		return fmt.Errorf("threshold must be in (0,1], got %v", c.Threshold)
	}
	if c.Limit < 1 {
		return fmt.Errorf("limit must be >= 1, got %d", c.Limit)
	}
	if c.MinLineRunes < 0 {
		return fmt.Errorf("min_line_runes must be >= 0, got %d", c.MinLineRunes)
	}
	if !validThreshold(c.ContainmentRatio) {
		return fmt.Errorf("containment_ratio must be in (0,1], got %v", c.ContainmentRatio)
	}
	if err := c.Keywords.Validate(); err != nil {
		return err
	}
	for i, t := range c.Templates {
		if len(t.Patterns) == 0 {
			return fmt.Errorf("template %d has no patterns", i)
		}
		if t.Hazard == "" && t.Countermeasure == "" {
			return fmt.Errorf("template %d has neither hazard nor countermeasure", i)
		}
	}
	if c.Generic.Hazard == "" || c.Generic.Countermeasure == "" {
		return fmt.Errorf("generic template needs both hazard and countermeasure")
	}
	return nil
}

// Containment returns the containment rule of c. An unusable ratio falls
// back to DefaultContainmentRatio.
func (c Config) Containment() Containment {
	ratio := c.ContainmentRatio
	if !validThreshold(ratio) {
		ratio = DefaultContainmentRatio
	}
	return Containment{MinRunes: c.MinLineRunes, Ratio: ratio}
}

// threshold returns t when it is usable, otherwise the configured threshold,
// otherwise DefaultThreshold.
func (c Config) threshold(t float64) float64 {
	switch {
	case validThreshold(t):
		return t
	case validThreshold(c.Threshold):
		return c.Threshold
	default:
		return DefaultThreshold
	}
}

func validThreshold(t float64) bool {
	return finite(t) && t > 0 && t <= 1
}
