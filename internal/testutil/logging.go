package testutil

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// LogCapture is a goroutine-safe sink for slog output. Surfaces log from
// their own goroutines, so reads and writes share a lock.
type LogCapture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *LogCapture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

// String returns everything logged so far.
func (c *LogCapture) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// Count reports how many times substr was logged.
func (c *LogCapture) Count(substr string) int {
	return strings.Count(c.String(), substr)
}

// CaptureLogBuffer redirects the default slog logger to a LogCapture at
// level and restores the original logger in t.Cleanup.
func CaptureLogBuffer(t *testing.T, level slog.Level) *LogCapture {
	t.Helper()
	originalLogger := slog.Default()
	capture := &LogCapture{}
	slog.SetDefault(slog.New(slog.NewTextHandler(capture, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() {
		slog.SetDefault(originalLogger)
	})
	return capture
}
