// Package ruleset holds the versioned data tables the engines read: the
// risk model (coefficients, trade rules, trade weights, level bands) and the
// triage config (threshold, keyword tables, fallback templates).
//
// A ruleset file is YAML overlaid on the built-in defaults. Scalars replace
// defaults, lists replace whole lists, and trade_weights merges per trade.
package ruleset

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/DukeRupert/kyrisk/internal/risk"
	"github.com/DukeRupert/kyrisk/internal/triage"
)

// DefaultVersion is reported when no ruleset file is loaded.
const DefaultVersion = "builtin"

// Ruleset is one complete, immutable set of engine tables.
type Ruleset struct {
	Version string        `yaml:"version" json:"version"`
	Risk    risk.Model    `yaml:"risk" json:"risk"`
	Triage  triage.Config `yaml:"triage" json:"triage"`
}

// Default returns the built-in ruleset.
func Default() *Ruleset {
	return &Ruleset{
		Version: DefaultVersion,
		Risk:    risk.DefaultModel(),
		Triage:  triage.DefaultConfig(),
	}
}

// Validate checks both halves of the ruleset.
func (r *Ruleset) Validate() error {
	if err := r.Risk.Validate(); err != nil {
		return fmt.Errorf("risk: %w", err)
	}
	if err := r.Triage.Validate(); err != nil {
		return fmt.Errorf("triage: %w", err)
	}
	return nil
}

// Load reads a ruleset file over the defaults.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Ruleset, error) {
	rs, _, err := LoadWithHash(path)
	return rs, err
}

// LoadWithHash is Load that also returns "sha256:<hex>" of the raw file
// bytes, so every result can be traced to the exact tables used. The
// defaults hash as empty input.
func LoadWithHash(path string) (*Ruleset, string, error) {
	if path == "" {
		return Default(), hashOf(nil), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), hashOf(nil), nil
		}
		return nil, "", fmt.Errorf("read ruleset: %w", err)
	}

	rs, err := Parse(data)
	if err != nil {
		return nil, "", err
	}
	return rs, hashOf(data), nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Ruleset, error) {
	rs := Default()
	if err := yaml.Unmarshal(data, rs); err != nil {
		return nil, fmt.Errorf("parse ruleset: %w", err)
	}
	if rs.Version == "" {
		rs.Version = DefaultVersion
	}
	if err := rs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ruleset: %w", err)
	}
	return rs, nil
}

// Marshal renders the ruleset as YAML.
func (r *Ruleset) Marshal() ([]byte, error) {
	return yaml.Marshal(r)
}

func hashOf(data []byte) string {
	h := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(h[:])
}
