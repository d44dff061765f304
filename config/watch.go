package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay debounces bursts of file events into a single reload.
const reloadDelay = 500 * time.Millisecond

// Logger is the logging interface used by Watch. It matches log/slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Watch loads the file at path into store and keeps reloading it whenever it
// changes, until ctx is done. A file that fails to parse is logged and the
// previous snapshot stays in place.
func Watch(ctx context.Context, path string, store *Store, logger Logger) error {
	cfg, err := LoadFile(path)
	if err != nil {
		return err
	}
	store.Store(cfg)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Editors often replace the file instead of writing it, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	reload := make(chan struct{}, 1)
	go handleWatcher(ctx, watcher, filepath.Clean(path), reload, logger)
	go scheduleReload(ctx, reload, func() {
		cfg, err := LoadFile(path)
		if err != nil {
			if logger != nil {
				logger.Error("failed to reload provider configuration", "path", path, "error", err)
			}
			return
		}
		store.Store(cfg)
		if logger != nil {
			logger.Info("provider configuration reloaded",
				"path", path,
				"project_ids", len(cfg.ProjectIDs),
				"public_routes", len(cfg.PublicRoutes))
		}
	})
	return nil
}

func handleWatcher(ctx context.Context, watcher *fsnotify.Watcher, path string, reload chan<- struct{}, logger Logger) {
	defer watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				select {
				case reload <- struct{}{}:
				default:
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if logger != nil {
				logger.Warn("config watcher error", "error", err)
			}
		}
	}
}

func scheduleReload(ctx context.Context, reload <-chan struct{}, callback func()) {
	var timer *time.Timer
	var c <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-reload:
			if timer != nil {
				timer.Reset(reloadDelay)
			} else {
				timer = time.NewTimer(reloadDelay)
				c = timer.C
			}
		case <-c:
			c = nil
			timer = nil
			callback()
		}
	}
}
