package ruleset

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last change
// before reloading.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads a Store when its ruleset file changes.
//
// The parent directory is watched rather than the file itself, so editors
// that save by renaming a temp file over the original still trigger a reload.
type Watcher struct {
	watcher  *fsnotify.Watcher
	store    *Store
	file     string
	logger   *slog.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher for the store's file.
func NewWatcher(store *Store, logger *slog.Logger) (*Watcher, error) {
	if store.Path() == "" {
		return nil, fmt.Errorf("ruleset store has no file to watch")
	}

	abs, err := filepath.Abs(store.Path())
	if err != nil {
		return nil, fmt.Errorf("resolve ruleset path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		watcher:  fw,
		store:    store,
		file:     abs,
		logger:   logger,
		debounce: DefaultDebounce,
	}, nil
}

// Run watches for changes and reloads the store. Blocks until ctx is
// cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.file {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				// Reload logs its own outcome.
				_ = w.store.Reload()
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("ruleset watcher error", "error", err)
		}
	}
}
