package overridestore

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/reglet-dev/drawhost/capability"
)

// ApplyFunc receives a freshly loaded table.
type ApplyFunc func(overrides map[capability.Name]bool)

// Watcher reloads a FileStore whenever its file changes and hands the table
// to an ApplyFunc. Bursts of events are debounced.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	store     *FileStore
	apply     ApplyFunc
	logger    *slog.Logger
	debounce  time.Duration
	done      chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long to wait after the last event before reloading.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// NewWatcher creates a watcher for the store's file.
func NewWatcher(store *FileStore, apply ApplyFunc, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher: fsw,
		store:     store,
		apply:     apply,
		logger:    slog.Default(),
		debounce:  250 * time.Millisecond,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start watches the directory holding the overrides file.
// The directory must exist.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.store.ConfigPath())
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}

	go w.loop()
	return nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("override watcher error", "error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.store.ConfigPath()) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	overrides, err := w.store.Load()
	if err != nil {
		w.logger.Warn("failed to reload overrides", "path", w.store.ConfigPath(), "error", err)
		return
	}
	w.logger.Info("overrides reloaded", "path", w.store.ConfigPath(), "entries", len(overrides))
	w.apply(overrides)
}
