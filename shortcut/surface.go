package shortcut

import (
	"errors"
	"log/slog"

	"localshortcut/accelerator"
)

// Surface is the rendering host shortcuts are attached to.
//
// Implementations must be comparable and are normally pointers: the registry
// keys its entries by surface identity. Remove functions returned by
// OnBeforeInput and OnceDestroyed must be safe to call more than once and
// after the hook has fired.
type Surface interface {
	// OnBeforeInput subscribes handler to raw key input delivered before the
	// surface content sees it.
	OnBeforeInput(handler func(accelerator.Input)) (remove func())
	// OnceDestroyed runs handler once when the surface is destroyed. If the
	// surface is already destroyed, handler runs before OnceDestroyed returns.
	OnceDestroyed(handler func()) (remove func())
	// Title is a human readable name used in log messages only.
	Title() (string, error)
	IsDestroyed() bool
}

// Callback is invoked when a registered shortcut matches.
type Callback func()

// ErrNilSurface is returned when a nil surface is passed to a registry.
var ErrNilSurface = errors.New("shortcut: nil surface")

const (
	destroyedTitle = "a destroyed surface"
	nilTitle       = "a nil surface"
)

// describe returns the surface title for diagnostics. Failures never
// propagate.
func describe(s Surface) (title string) {
	if s == nil {
		return nilTitle
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("[DEBUG-SHORTCUT] surface title lookup panicked", "panic", r)
			title = destroyedTitle
		}
	}()
	t, err := s.Title()
	if err != nil {
		slog.Debug("[DEBUG-SHORTCUT] surface title unavailable", "error", err)
		return destroyedTitle
	}
	return t
}
