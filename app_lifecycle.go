package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"localshortcut/internal/config"
	"localshortcut/internal/sessionlog"
	"localshortcut/internal/wailssurface"
	"localshortcut/internal/workerutil"
	"localshortcut/shortcut"

	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

var (
	runtimeEventsEmitFn           = runtime.EventsEmit
	runtimeWindowReloadFn         = runtime.WindowReload
	runtimeWindowToggleMaximiseFn = runtime.WindowToggleMaximise
	runtimeWindowIsFullscreenFn   = runtime.WindowIsFullscreen
	runtimeWindowFullscreenFn     = runtime.WindowFullscreen
	runtimeWindowUnfullscreenFn   = runtime.WindowUnfullscreen
	runtimeQuitFn                 = runtime.Quit
	resolveConfigPathFn           = config.DefaultPath
	ensureConfigFileFn            = config.EnsureFile
	watchConfigFn                 = config.Watch
	setDefaultLoggerFn            = slog.SetDefault
	runtimeWindowUnminimiseFn     = runtime.WindowUnminimise
	runtimeWindowShowFn           = runtime.WindowShow
)

var newWindowSurfaceFn = func(ctx context.Context, name, title string) windowSurface {
	return wailssurface.New(ctx, name, title)
}

const (
	shutdownWaitTimeout = 5 * time.Second
	singleInstanceID    = "8d2f7a4e-localshortcut-desktop"
)

func (a *App) startup(ctx context.Context) {
	a.setRuntimeContext(ctx)

	a.configPath = resolveConfigPathFn()
	for _, warning := range config.ConsumeDefaultPathWarnings() {
		slog.Warn("[WARN-CONFIG] " + warning)
	}
	cfg, err := ensureConfigFileFn(a.configPath)
	if err != nil {
		slog.Warn("[WARN-CONFIG] config load failed, using defaults", "path", a.configPath, "error", err)
		cfg = config.DefaultConfig()
	}
	a.logLevel.Set(cfg.Level())
	a.installLogger()
	a.setConfigSnapshot(cfg)

	a.registry = shortcut.NewRegistry(shortcut.WithPlatform(cfg.EffectivePlatform()))
	a.surface = newWindowSurfaceFn(ctx, mainSurfaceName, appTitle)
	a.applyConfigBindings(cfg)

	watchCtx, cancel := context.WithCancel(context.Background())
	a.stopWatch = cancel
	workerutil.RunWithPanicRecovery(watchCtx, "config-watch", &a.workers, func(ctx context.Context) {
		if err := watchConfigFn(ctx, a.configPath, a.reloadConfig); err != nil {
			slog.Warn("[WARN-CONFIG] config watch stopped", "path", a.configPath, "error", err)
		}
	}, workerutil.RecoveryOptions{
		IsShutdown: a.shuttingDown.Load,
	})

	slog.Debug("[DEBUG-WAILS] startup complete",
		"config", a.configPath,
		"platform", a.registry.Platform(),
		"shortcuts", len(a.ListShortcuts()),
	)
}

// installLogger writes logs to stderr at the configured level and forwards
// warnings to the front-end.
func (a *App) installLogger() {
	base := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &a.logLevel})
	setDefaultLoggerFn(slog.New(sessionlog.NewTeeHandler(base, slog.LevelWarn, a.forwardLogEntry)))
}

// beforeClose destroys the window surface so every hook is released before
// the WebView goes away. Returning false lets the close proceed.
func (a *App) beforeClose(ctx context.Context) bool {
	a.destroySurface()
	return false
}

func (a *App) shutdown(ctx context.Context) {
	a.shuttingDown.Store(true)
	if a.stopWatch != nil {
		a.stopWatch()
	}

	done := make(chan struct{})
	go func() {
		a.workers.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownWaitTimeout):
		slog.Warn("[DEBUG-WAILS] timed out waiting for background workers", "timeout", shutdownWaitTimeout)
	}

	a.destroySurface()
	a.setRuntimeContext(nil)
}

// onSecondInstanceLaunch brings the running window forward instead of
// opening a second one.
func (a *App) onSecondInstanceLaunch(data options.SecondInstanceData) {
	slog.Debug("[DEBUG-SINGLE] second instance launched", "args", data.Args)
	ctx := a.runtimeContext()
	if ctx == nil {
		return
	}
	runtimeWindowUnminimiseFn(ctx)
	runtimeWindowShowFn(ctx)
}

func (a *App) destroySurface() {
	if a.surface != nil {
		a.surface.Destroy()
	}
}

func (a *App) reloadConfig(cfg config.Config) {
	if a.shuttingDown.Load() {
		return
	}
	if cfg.EffectivePlatform() != a.registry.Platform() {
		slog.Warn("[WARN-CONFIG] platform change takes effect after restart",
			"current", a.registry.Platform(),
			"configured", cfg.EffectivePlatform(),
		)
	}
	a.logLevel.Set(cfg.Level())
	a.setConfigSnapshot(cfg)
	a.applyConfigBindings(cfg)
	a.emitRuntimeEvent(eventShortcutsChanged, a.ListShortcuts())
}

// applyConfigBindings replaces the configured bindings of the main surface
// with those of cfg. Shortcuts added at runtime are registered again after
// the configured ones, keeping their relative order.
func (a *App) applyConfigBindings(cfg config.Config) {
	a.bindingsMu.Lock()
	defer a.bindingsMu.Unlock()

	a.registry.UnregisterAll(a.surface)

	runtimeAdded := make([]binding, 0, len(a.bindings))
	for _, b := range a.bindings {
		if !b.fromConfig {
			runtimeAdded = append(runtimeAdded, b)
		}
	}

	next := make([]binding, 0, len(runtimeAdded)+len(cfg.BindingsFor(mainSurfaceName)))
	for _, cb := range cfg.BindingsFor(mainSurfaceName) {
		for _, accel := range cb.Accelerators {
			b, err := a.registerLocked(accel, cb.Action, true)
			if err != nil {
				slog.Warn("[WARN-CONFIG] skipping configured shortcut", "accelerator", accel, "action", cb.Action, "error", err)
				continue
			}
			next = append(next, b)
		}
	}
	for _, prev := range runtimeAdded {
		b, err := a.registerLocked(prev.accel, prev.action, false)
		if err != nil {
			slog.Warn("[DEBUG-SHORTCUT] dropping runtime shortcut", "accelerator", prev.accel, "error", err)
			continue
		}
		next = append(next, b)
	}
	a.bindings = next
}

// registerLocked registers accel on the main surface. Caller holds bindingsMu.
func (a *App) registerLocked(accel, action string, fromConfig bool) (binding, error) {
	event, err := a.registry.Parse(accel)
	if err != nil {
		return binding{}, err
	}
	if err := a.registry.Register(a.surface, accel, a.trigger(accel, action)); err != nil {
		return binding{}, err
	}
	return binding{accel: accel, action: action, event: event, fromConfig: fromConfig}, nil
}
