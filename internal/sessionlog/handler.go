// Package sessionlog tees warning and error log records to a callback so a
// host can surface them to its UI.
package sessionlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"
)

// Entry is the captured form of one record.
type Entry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
	// Source is the dot-separated slog group, empty at the top level.
	Source string `json:"source,omitempty"`
	// Attrs holds the record attributes rendered as strings. Attributes
	// added with WithAttrs are included.
	Attrs map[string]string `json:"attrs,omitempty"`
}

// TeeHandler forwards every record to base and hands records at or above
// minLevel to sink.
type TeeHandler struct {
	base     slog.Handler
	sink     func(Entry)
	minLevel slog.Leveler
	group    string
	attrs    []slog.Attr
}

// NewTeeHandler wraps base. A nil sink disables the tee.
func NewTeeHandler(base slog.Handler, minLevel slog.Leveler, sink func(Entry)) *TeeHandler {
	return &TeeHandler{base: base, sink: sink, minLevel: minLevel}
}

// Enabled defers to base; minLevel only gates the sink.
func (h *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *TeeHandler) Handle(ctx context.Context, record slog.Record) error {
	err := h.base.Handle(ctx, record)
	if h.sink == nil || record.Level < h.minLevel.Level() {
		return err
	}

	entry := Entry{
		Time:    record.Time,
		Level:   record.Level.String(),
		Message: record.Message,
		Source:  h.group,
	}
	if n := len(h.attrs) + record.NumAttrs(); n > 0 {
		entry.Attrs = make(map[string]string, n)
		for _, a := range h.attrs {
			entry.Attrs[a.Key] = a.Value.String()
		}
		record.Attrs(func(a slog.Attr) bool {
			entry.Attrs[a.Key] = a.Value.String()
			return true
		})
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				// stderr, not slog: logging here would re-enter the tee.
				fmt.Fprintf(os.Stderr, "[session-log] sink panicked: %v\n%s\n", r, debug.Stack())
			}
		}()
		h.sink(entry)
	}()
	return err
}

func (h *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.base = h.base.WithAttrs(attrs)
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

func (h *TeeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.base = h.base.WithGroup(name)
	if h.group == "" {
		next.group = name
	} else {
		next.group = h.group + "." + name
	}
	return &next
}
