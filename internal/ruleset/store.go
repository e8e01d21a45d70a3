package ruleset

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/DukeRupert/kyrisk/internal/metrics"
)

// Snapshot is a ruleset together with the hash of the file it came from.
type Snapshot struct {
	Ruleset  *Ruleset
	Hash     string
	LoadedAt time.Time
}

// Store holds the current ruleset. Readers take one Snapshot per request
// and use it throughout, so a concurrent reload never mixes two versions
// within one call.
type Store struct {
	path    string
	logger  *slog.Logger
	current atomic.Pointer[Snapshot]
}

// NewStore loads path (empty for defaults) and returns a store holding it.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	rs, hash, err := LoadWithHash(path)
	if err != nil {
		return nil, err
	}
	s := &Store{path: path, logger: logger}
	s.current.Store(&Snapshot{Ruleset: rs, Hash: hash, LoadedAt: time.Now()})
	return s, nil
}

// NewStaticStore returns a store that always holds rs. Reload is a no-op.
func NewStaticStore(rs *Ruleset, hash string) *Store {
	s := &Store{logger: slog.New(slog.DiscardHandler)}
	s.current.Store(&Snapshot{Ruleset: rs, Hash: hash, LoadedAt: time.Now()})
	return s
}

// Path returns the file the store loads from.
func (s *Store) Path() string {
	return s.path
}

// Current returns the active snapshot.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Reload re-reads the ruleset file. On any error, including the file having
// disappeared, the active snapshot is kept.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	rs, hash, err := s.load()
	if err != nil {
		metrics.RulesetReloaded(false)
		s.logger.Error("ruleset reload failed, keeping previous",
			"path", s.path,
			"hash", s.Current().Hash,
			"error", err,
		)
		return err
	}

	prev := s.current.Swap(&Snapshot{Ruleset: rs, Hash: hash, LoadedAt: time.Now()})
	metrics.RulesetReloaded(true)
	s.logger.Info("ruleset reloaded",
		"path", s.path,
		"version", rs.Version,
		"hash", hash,
		"previous_hash", prev.Hash,
	)
	return nil
}

// load is LoadWithHash except that a missing file is an error. Falling back
// to defaults is only right at startup.
func (s *Store) load() (*Ruleset, string, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, "", fmt.Errorf("stat ruleset: %w", err)
	}
	return LoadWithHash(s.path)
}
