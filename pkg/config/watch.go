package config

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the configuration file and reloads it on change.
// Rapid write bursts (editors, config management agents) are debounced
// into a single reload.
type Watcher struct {
	path     string
	interval time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for the given configuration file.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	if debounce == 0 {
		debounce = 200 * time.Millisecond
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:     path,
		interval: debounce,
		watcher:  w,
		logger:   slog.Default().With("component", "config.watcher"),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch blocks until the context is cancelled or Stop is called. Each
// settled change to the file reloads it (with env overrides reapplied)
// and passes the result to onReload; a file that fails to load is logged
// and skipped, keeping the last good configuration in effect.
func (w *Watcher) Watch(ctx context.Context, onReload func(*Config)) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	if err := w.watcher.Add(w.path); err != nil {
		return fmt.Errorf("failed to watch %q: %w", w.path, err)
	}

	w.logger.Info("config watcher started",
		"path", w.path,
		"debounce_ms", w.interval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("config watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("config watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}

			w.logger.Debug("config file event", "path", event.Name, "op", event.Op.String())
			w.scheduleReload(onReload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("config watcher error", "error", err)
		}
	}
}

// scheduleReload resets the debounce timer; the reload fires once events
// settle.
func (w *Watcher) scheduleReload(onReload func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.interval, func() {
		cfg, err := LoadConfigWithEnvOverrides(w.path)
		if err != nil {
			w.logger.Error("config reload failed, keeping previous configuration", "error", err)
			return
		}

		w.logger.Info("configuration reloaded", "path", w.path)
		onReload(cfg)
	})
}

// Stop stops the watcher and waits for the watch loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	return w.watcher.Close()
}
