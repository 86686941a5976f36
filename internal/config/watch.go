package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events editors produce for one save.
var watchDebounce = 150 * time.Millisecond

// newWatcherFn is a test seam for watcher construction failures.
var newWatcherFn = fsnotify.NewWatcher

// Watch reloads the config at path whenever the file is written or replaced
// and passes every config that loads cleanly to onChange. A config that fails
// to load is logged and skipped, as is a momentarily empty file. Watch blocks
// until ctx is cancelled.
//
// The parent directory is watched instead of the file itself so atomic
// rename-into-place saves are seen.
func Watch(ctx context.Context, path string, onChange func(Config)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch config: resolve path: %w", err)
	}
	watcher, err := newWatcherFn()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil {
			slog.Debug("[DEBUG-CONFIG] watcher close failed", "error", closeErr)
		}
	}()
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	slog.Debug("[DEBUG-CONFIG] watching config", "path", absPath)

	var debounce *time.Timer
	var fire <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				debounce.Reset(watchDebounce)
			}
			fire = debounce.C
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("[WARN-CONFIG] config watcher error", "error", watchErr)
		case <-fire:
			fire = nil
			if info, statErr := os.Stat(absPath); statErr == nil && info.Size() == 0 {
				slog.Debug("[DEBUG-CONFIG] config file empty, waiting for next write", "path", absPath)
				continue
			}
			cfg, loadErr := Load(absPath)
			if loadErr != nil {
				slog.Warn("[WARN-CONFIG] config reload failed, keeping previous config", "path", absPath, "error", loadErr)
				continue
			}
			slog.Info("[DEBUG-CONFIG] config reloaded", "path", absPath)
			onChange(cfg)
		}
	}
}
