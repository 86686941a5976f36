package main

import (
	"context"
	"log/slog"

	"localshortcut/internal/sessionlog"
)

const (
	eventShortcutTriggered = "shortcut:triggered"
	eventShortcutsChanged  = "shortcut:changed"
	eventSessionLog        = "app:session-log"
)

// ShortcutTriggered is the payload of the shortcut:triggered event.
type ShortcutTriggered struct {
	Accelerator string `json:"accelerator"`
	Action      string `json:"action"`
	// Builtin is true when the backend handled the action itself.
	Builtin bool `json:"builtin"`
}

// builtinActions run against the native window. Anything else is only
// forwarded to the front-end.
var builtinActions = map[string]func(ctx context.Context){
	"reload":          func(ctx context.Context) { runtimeWindowReloadFn(ctx) },
	"toggle-maximise": func(ctx context.Context) { runtimeWindowToggleMaximiseFn(ctx) },
	"toggle-fullscreen": func(ctx context.Context) {
		if runtimeWindowIsFullscreenFn(ctx) {
			runtimeWindowUnfullscreenFn(ctx)
			return
		}
		runtimeWindowFullscreenFn(ctx)
	},
	// Quit runs OnBeforeClose, which destroys the window surface. That waits
	// for the running input handler, so it cannot run on the handler goroutine.
	"quit": func(ctx context.Context) { go runtimeQuitFn(ctx) },
}

// trigger returns the registry callback for one binding. The runtime
// context is resolved when the shortcut fires, not when it is registered.
func (a *App) trigger(accel, action string) func() {
	return func() {
		ctx := a.runtimeContext()
		run, builtin := builtinActions[action]
		payload := ShortcutTriggered{Accelerator: accel, Action: action, Builtin: builtin}
		// Emit first: quit tears down the event bus.
		a.emitRuntimeEventWithContext(ctx, eventShortcutTriggered, payload)
		if builtin && ctx != nil {
			run(ctx)
		}
		slog.Debug("[DEBUG-SHORTCUT] shortcut triggered", "accelerator", accel, "action", action, "builtin", builtin)
	}
}

// emitRuntimeEvent emits via the app context and delegates to emitRuntimeEventWithContext.
func (a *App) emitRuntimeEvent(name string, payload any) {
	a.emitRuntimeEventWithContext(a.runtimeContext(), name, payload)
}

// emitRuntimeEventWithContext emits a runtime event only when ctx is non-nil.
func (a *App) emitRuntimeEventWithContext(ctx context.Context, name string, payload any) {
	if ctx == nil {
		slog.Warn("[EVENT] runtime event dropped because app context is nil", "event", name)
		return
	}
	runtimeEventsEmitFn(ctx, name, payload)
}

// forwardLogEntry is the session log sink. It must not log: it runs inside
// the default handler.
func (a *App) forwardLogEntry(entry sessionlog.Entry) {
	ctx := a.runtimeContext()
	if ctx == nil {
		return
	}
	runtimeEventsEmitFn(ctx, eventSessionLog, entry)
}
