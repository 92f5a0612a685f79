package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the burst of filesystem events editors produce
// when saving a file.
const reloadDebounce = 500 * time.Millisecond

// Watcher reloads the configuration file when it changes and hands the new
// config to a callback. Reload failures keep the previous configuration.
type Watcher struct {
	path     string
	onReload func(*Config)
	logger   *slog.Logger
}

// NewWatcher creates a watcher for the config file at path. onReload is
// invoked with each successfully loaded configuration.
func NewWatcher(path string, onReload func(*Config)) *Watcher {
	return &Watcher{
		path:     path,
		onReload: onReload,
		logger:   slog.Default().With("component", "config.watcher"),
	}
}

// Start watches until ctx is cancelled. The parent directory is watched
// rather than the file itself so atomic-rename saves keep working.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return err
	}

	go func() {
		defer fw.Close()

		var timer *time.Timer
		target := filepath.Clean(w.path)

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return

			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(reloadDebounce, w.reload)

			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				w.logger.Error("config watch error", "error", err)
			}
		}
	}()

	w.logger.Info("watching configuration file", "path", w.path)
	return nil
}

// reload parses and validates the file, invoking the callback on success.
func (w *Watcher) reload() {
	cfg, err := LoadConfigWithEnvOverrides(w.path)
	if err != nil {
		w.logger.Error("config reload failed, keeping previous configuration",
			"path", w.path, "error", err)
		return
	}
	w.logger.Info("configuration reloaded", "path", w.path)
	w.onReload(cfg)
}
