package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/alexanderramin/braindump/internal/scheduler"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reloads the tuning file into a Store whenever it changes on disk.
// Invalid edits are logged and the previous options stay in effect. Removing
// the file reverts to base.
type Watcher struct {
	Path     string
	Base     scheduler.Options
	Store    *Store
	Logger   *slog.Logger
	Debounce time.Duration
}

// Watch blocks until ctx is cancelled. The parent directory is watched so
// atomic rename-over saves are seen.
func (w *Watcher) Watch(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.Path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	target := filepath.Clean(w.Path)

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()
	schedule := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			if ctx.Err() == nil {
				w.Reload()
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				logger.Debug("config_event", "op", event.Op.String(), "file", event.Name)
				schedule()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("config_watch_error", "error", err)
		}
	}
}

// Reload reads the file once and publishes the result. It reports whether
// the store was updated.
func (w *Watcher) Reload() bool {
	logger := w.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts, _, err := Load(w.Path, w.Base)
	if err != nil {
		logger.Warn("config_reload_rejected", "path", w.Path, "error", err)
		return false
	}
	w.Store.Set(opts)
	logger.Info("config_reloaded", "path", w.Path, "enum_policy", string(opts.EnumPolicy))
	return true
}
