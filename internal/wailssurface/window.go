// Package wailssurface adapts a Wails WebView window to shortcut.Surface.
//
// The front-end forwards DOM keydown/keyup events through the Wails event
// bus as "localshortcut:input:<name>" with a payload shaped like
// accelerator.Input.
package wailssurface

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"localshortcut/accelerator"
)

const inputEventPrefix = "localshortcut:input:"

var (
	runtimeEventsOnFn       = runtime.EventsOn
	runtimeWindowSetTitleFn = runtime.WindowSetTitle
)

// ErrWindowDestroyed is returned by Title after Destroy.
var ErrWindowDestroyed = errors.New("wailssurface: window destroyed")

// InputEvent returns the event name the front-end emits key input on for
// the named view.
func InputEvent(name string) string {
	return inputEventPrefix + name
}

// Window is a Wails window or an embedded view inside it, identified by
// name. The host calls Destroy from OnBeforeClose or OnShutdown.
//
// The Wails bus runs every listener call on a fresh goroutine, so Window
// delivers at most one input to its handlers at a time.
type Window struct {
	ctx  context.Context
	name string

	// deliverMu is held while a handler runs. Destroy takes it after
	// marking the window destroyed.
	deliverMu sync.Mutex

	mu           sync.Mutex
	title        string
	destroyed    bool
	nextHookID   int
	destroyHooks map[int]func()
	cancels      map[int]func()
}

// New returns a live window surface. ctx must be the Wails runtime context
// received in OnStartup.
func New(ctx context.Context, name, title string) *Window {
	return &Window{
		ctx:          ctx,
		name:         name,
		title:        title,
		destroyHooks: make(map[int]func()),
		cancels:      make(map[int]func()),
	}
}

// Name returns the view name used in the input event.
func (w *Window) Name() string { return w.name }

func (w *Window) OnBeforeInput(handler func(accelerator.Input)) func() {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return func() {}
	}
	w.nextHookID++
	id := w.nextHookID
	w.mu.Unlock()

	cancel := runtimeEventsOnFn(w.ctx, InputEvent(w.name), func(optionalData ...interface{}) {
		in, err := decodeInput(optionalData)
		if err != nil {
			slog.Debug("[DEBUG-WAILS] dropping malformed input event", "view", w.name, "error", err)
			return
		}
		w.deliverMu.Lock()
		defer w.deliverMu.Unlock()
		if w.IsDestroyed() {
			return
		}
		handler(in)
	})
	remove := sync.OnceFunc(cancel)

	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		remove()
		return func() {}
	}
	w.cancels[id] = remove
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.cancels, id)
		w.mu.Unlock()
		remove()
	}
}

func (w *Window) OnceDestroyed(handler func()) func() {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		handler()
		return func() {}
	}
	w.nextHookID++
	id := w.nextHookID
	w.destroyHooks[id] = handler
	w.mu.Unlock()
	return func() {
		w.mu.Lock()
		delete(w.destroyHooks, id)
		w.mu.Unlock()
	}
}

func (w *Window) Title() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return "", ErrWindowDestroyed
	}
	return w.title, nil
}

func (w *Window) IsDestroyed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}

// SetTitle updates the native window title and the diagnostic title.
func (w *Window) SetTitle(title string) {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	w.title = title
	w.mu.Unlock()
	runtimeWindowSetTitleFn(w.ctx, title)
}

// Destroy waits for an input that is being handled, then runs the destroy
// hooks and unsubscribes every input listener. No handler starts after
// Destroy returns. Later calls do nothing.
//
// Destroy must not be called from inside an input handler.
func (w *Window) Destroy() {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	w.destroyed = true
	hooks := make([]func(), 0, len(w.destroyHooks))
	for _, h := range w.destroyHooks {
		hooks = append(hooks, h)
	}
	cancels := make([]func(), 0, len(w.cancels))
	for _, c := range w.cancels {
		cancels = append(cancels, c)
	}
	clear(w.destroyHooks)
	clear(w.cancels)
	w.mu.Unlock()

	// Inputs queued behind this see destroyed and return.
	w.deliverMu.Lock()
	w.deliverMu.Unlock() //nolint:staticcheck // empty critical section waits for the running handler

	for _, h := range hooks {
		h()
	}
	for _, c := range cancels {
		c()
	}
	slog.Debug("[DEBUG-WAILS] window surface destroyed", "view", w.name)
}

// decodeInput converts the first event argument into an Input. The Wails
// bridge delivers JSON objects as map[string]interface{}.
func decodeInput(data []interface{}) (accelerator.Input, error) {
	if len(data) == 0 {
		return accelerator.Input{}, errors.New("missing payload")
	}
	raw, err := json.Marshal(data[0])
	if err != nil {
		return accelerator.Input{}, fmt.Errorf("re-encode payload: %w", err)
	}
	var in accelerator.Input
	if err := json.Unmarshal(raw, &in); err != nil {
		return accelerator.Input{}, fmt.Errorf("decode payload: %w", err)
	}
	if in.Type != accelerator.InputKeyDown && in.Type != accelerator.InputKeyUp {
		return accelerator.Input{}, fmt.Errorf("unknown input type %q", in.Type)
	}
	return in, nil
}
