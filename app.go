package main

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"localshortcut/accelerator"
	"localshortcut/internal/config"
	"localshortcut/shortcut"
)

const (
	appTitle = "localshortcut"
	// mainSurfaceName keys the window's bindings in the config and names the
	// front-end input event.
	mainSurfaceName = "main"
)

// windowSurface is the main window as seen by the app: a shortcut surface
// the host can destroy on close.
type windowSurface interface {
	shortcut.Surface
	Destroy()
}

// binding is one registered accelerator and the action it triggers, kept
// in registration order. fromConfig entries are replaced on reload; entries
// added through RegisterShortcut survive it.
type binding struct {
	accel      string
	action     string
	event      accelerator.KeyEvent
	fromConfig bool
}

// App is the Wails-bound application service.
type App struct {
	// Runtime context lifecycle.
	ctx   context.Context
	ctxMu sync.RWMutex

	// Lock ordering (outer -> inner):
	//   bindingsMu -> shortcut.Registry.mu (via Register/Unregister)
	//
	// cfgMu is independent and never held while calling the registry.
	cfgMu      sync.RWMutex
	cfg        config.Config
	configPath string

	registry *shortcut.Registry
	// surface is set once in startup before any bound method can run and
	// never reassigned.
	surface windowSurface

	bindingsMu sync.Mutex
	bindings   []binding

	logLevel slog.LevelVar

	workers      sync.WaitGroup
	stopWatch    context.CancelFunc
	shuttingDown atomic.Bool
}

// NewApp creates a new App application struct.
func NewApp() *App {
	return &App{
		cfg: config.DefaultConfig(),
	}
}

func (a *App) setRuntimeContext(ctx context.Context) {
	a.ctxMu.Lock()
	a.ctx = ctx
	a.ctxMu.Unlock()
}

func (a *App) runtimeContext() context.Context {
	a.ctxMu.RLock()
	ctx := a.ctx
	a.ctxMu.RUnlock()
	return ctx
}

func (a *App) getConfigSnapshot() config.Config {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return config.Clone(a.cfg)
}

func (a *App) setConfigSnapshot(cfg config.Config) {
	a.cfgMu.Lock()
	a.cfg = config.Clone(cfg)
	a.cfgMu.Unlock()
}
