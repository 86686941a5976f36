package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	renameAttempts = 10
	// Windows antivirus and indexers hold short-lived locks on fresh files.
	renameBackoffStep = 10 * time.Millisecond
)

// atomicWrite replaces path with data through a synced temp file in the
// same directory, so readers such as Watch never see a half-written file.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("save config: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config.tmp.*")
	if err != nil {
		return fmt.Errorf("save config: create temp: %w", err)
	}
	tmpPath := tmp.Name()
	if err := writeAndClose(tmp, data); err != nil {
		discardTemp(tmpPath)
		return err
	}
	if err := renameWithRetry(tmpPath, path); err != nil {
		discardTemp(tmpPath)
		return fmt.Errorf("save config: rename: %w", err)
	}
	return nil
}

func writeAndClose(f *os.File, data []byte) error {
	steps := []struct {
		name string
		run  func() error
	}{
		{"chmod temp", func() error { return f.Chmod(0o600) }},
		{"write", func() error { _, err := f.Write(data); return err }},
		{"sync", f.Sync},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			_ = f.Close()
			return fmt.Errorf("save config: %s: %w", step.name, err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save config: close: %w", err)
	}
	return nil
}

func discardTemp(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("[WARN-CONFIG] failed to remove temp file", "path", path, "error", err)
	}
}

func renameWithRetry(from, to string) error {
	var err error
	for attempt := 1; attempt <= renameAttempts; attempt++ {
		if err = os.Rename(from, to); err == nil || runtime.GOOS != "windows" {
			return err
		}
		time.Sleep(time.Duration(attempt) * renameBackoffStep)
	}
	return err
}

// validateConfigPath returns the absolute form of path. Writes are only
// allowed inside the config directory.
func validateConfigPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("config path required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("save config: resolve path: %w", err)
	}
	dir, err := defaultConfigDirFn()
	if err == nil {
		dir, err = filepath.Abs(dir)
	}
	if err != nil {
		return "", fmt.Errorf("save config: resolve config dir: %w", err)
	}
	if !pathWithinDir(abs, dir) {
		return "", fmt.Errorf("save config: path outside config directory: %q", abs)
	}
	return abs, nil
}

func defaultConfigDir() (string, error) {
	return filepath.Dir(DefaultPath()), nil
}

// pathWithinDir reports whether path is dir or below it. On Windows
// filepath.Rel yields an absolute path across drives, which is rejected.
func pathWithinDir(path, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}
