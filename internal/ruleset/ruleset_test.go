package ruleset

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/kyrisk/internal/domain"
	"github.com/DukeRupert/kyrisk/internal/risk"
	"github.com/DukeRupert/kyrisk/internal/triage"
)

const emptyHash = "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadWithHash_Defaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		rs, hash, err := LoadWithHash(path)
		require.NoError(t, err)
		assert.Equal(t, Default(), rs)
		assert.Equal(t, emptyHash, hash)
	}
}

func TestLoadWithHash_Overlay(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ruleset.yaml", `
version: "2024.2"
risk:
  coefficients:
    density:
      baseline: 8
  trade_weights:
    slope-work:
      collapse: 1.5
triage:
  threshold: 0.8
  limit: 3
`)

	rs, hash, err := LoadWithHash(path)
	require.NoError(t, err)

	assert.Equal(t, "2024.2", rs.Version)
	assert.True(t, strings.HasPrefix(hash, "sha256:"))
	assert.NotEqual(t, emptyHash, hash)

	assert.Equal(t, 8.0, rs.Risk.Coefficients.Density.Baseline)
	assert.Equal(t, risk.DefaultDensityWeight, rs.Risk.Coefficients.Density.Weight, "untouched field keeps default")
	assert.Equal(t, 1.5, rs.Risk.Weights.Lookup(risk.TradeSlopeWork, domain.CategoryCollapse))
	assert.Equal(t, 1.3, rs.Risk.Weights.Lookup(risk.TradeEarthwork, domain.CategoryCollapse), "other trades kept")
	assert.Equal(t, risk.DefaultTradeRules(), rs.Risk.Trades)

	assert.Equal(t, 0.8, rs.Triage.Threshold)
	assert.Equal(t, 3, rs.Triage.Limit)
	assert.Equal(t, triage.DefaultTemplates(), rs.Triage.Templates)
}

func TestLoadWithHash_ListsReplace(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ruleset.yaml", `
risk:
  trades:
    - label: tunnelling
      keywords: [トンネル, tunnel]
`)

	rs, err := Load(path)
	require.NoError(t, err)

	require.Len(t, rs.Risk.Trades, 1)
	assert.Equal(t, domain.Trade("tunnelling"), rs.Risk.Trades.Classify("tunnel boring"))
	assert.Equal(t, domain.TradeOther, rs.Risk.Trades.Classify("slope"))
	assert.Equal(t, DefaultVersion, rs.Version)
}

func TestLoadWithHash_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{name: "malformed yaml", content: "risk: [", errMsg: "parse ruleset"},
		{name: "threshold out of range", content: "triage:\n  threshold: 1.5\n", errMsg: "threshold"},
		{name: "photo ceiling below floor", content: "risk:\n  coefficients:\n    photo:\n      ceiling: 0.5\n", errMsg: "photo.ceiling"},
		{name: "reserved trade label", content: "risk:\n  trades:\n    - label: other\n      keywords: [x]\n", errMsg: "reserved"},
		{name: "negative danger weight", content: "triage:\n  keywords:\n    danger:\n      - term: x\n        weight: -2\n", errMsg: "weight"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml", tt.content)
			_, _, err := LoadWithHash(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestMarshal_RoundTrips(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)

	rs, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default(), rs)
}

// =============================================================================
// Store and Watcher
// =============================================================================

func TestStore_Reload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ruleset.yaml", "version: one\n")

	store, err := NewStore(path, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	first := store.Current()
	assert.Equal(t, "one", first.Ruleset.Version)

	writeFile(t, dir, "ruleset.yaml", "version: two\n")
	require.NoError(t, store.Reload())
	assert.Equal(t, "two", store.Current().Ruleset.Version)
	assert.NotEqual(t, first.Hash, store.Current().Hash)
	assert.Equal(t, "one", first.Ruleset.Version, "old snapshot is unchanged")

	writeFile(t, dir, "ruleset.yaml", "triage:\n  limit: 0\n")
	assert.Error(t, store.Reload())
	assert.Equal(t, "two", store.Current().Ruleset.Version, "invalid file keeps previous")

	require.NoError(t, os.Remove(path))
	assert.Error(t, store.Reload())
	assert.Equal(t, "two", store.Current().Ruleset.Version, "deleted file keeps previous")
}

func TestStore_Static(t *testing.T) {
	store := NewStaticStore(Default(), "sha256:test")
	assert.NoError(t, store.Reload())
	assert.Equal(t, "sha256:test", store.Current().Hash)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ruleset.yaml", "version: before\n")
	logger := slog.New(slog.DiscardHandler)

	store, err := NewStore(path, logger)
	require.NoError(t, err)

	w, err := NewWatcher(store, logger)
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Unrelated files in the same directory are ignored.
	writeFile(t, dir, "notes.txt", "hello")
	writeFile(t, dir, "ruleset.yaml", "version: after\n")

	require.Eventually(t, func() bool {
		return store.Current().Ruleset.Version == "after"
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestNewWatcher_RequiresPath(t *testing.T) {
	_, err := NewWatcher(NewStaticStore(Default(), emptyHash), slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}
