package main

import (
	"errors"
	"strings"

	"localshortcut/accelerator"
)

// ShortcutInfo describes one registered shortcut for the front-end.
type ShortcutInfo struct {
	Accelerator string `json:"accelerator"`
	Action      string `json:"action"`
	FromConfig  bool   `json:"fromConfig"`
}

func (a *App) requireSurface() error {
	if a.registry == nil || a.surface == nil {
		return errors.New("shortcut surface is unavailable")
	}
	return nil
}

// RegisterShortcut binds accel to action on the main window. Registering
// the same accelerator again adds a second binding behind the first one.
func (a *App) RegisterShortcut(accel string, action string) error {
	if err := a.requireSurface(); err != nil {
		return err
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return errors.New("action is required")
	}

	a.bindingsMu.Lock()
	defer a.bindingsMu.Unlock()
	b, err := a.registerLocked(accel, action, false)
	if err != nil {
		return err
	}
	a.bindings = append(a.bindings, b)
	a.emitRuntimeEvent(eventShortcutsChanged, a.listLocked())
	return nil
}

// UnregisterShortcut removes the first binding matching accel. Any
// spelling of the same combination matches.
func (a *App) UnregisterShortcut(accel string) error {
	if err := a.requireSurface(); err != nil {
		return err
	}

	event, err := a.registry.Parse(accel)
	if err != nil {
		return err
	}

	a.bindingsMu.Lock()
	defer a.bindingsMu.Unlock()
	if err := a.registry.Unregister(a.surface, accel); err != nil {
		return err
	}
	for i, b := range a.bindings {
		if accelerator.Equal(b.event, event) {
			a.bindings = append(a.bindings[:i], a.bindings[i+1:]...)
			break
		}
	}
	a.emitRuntimeEvent(eventShortcutsChanged, a.listLocked())
	return nil
}

// IsShortcutRegistered reports whether accel is bound on the main window.
func (a *App) IsShortcutRegistered(accel string) (bool, error) {
	if err := a.requireSurface(); err != nil {
		return false, err
	}
	return a.registry.IsRegistered(a.surface, accel)
}

// ListShortcuts returns the registered shortcuts in match order.
func (a *App) ListShortcuts() []ShortcutInfo {
	a.bindingsMu.Lock()
	defer a.bindingsMu.Unlock()
	return a.listLocked()
}

func (a *App) listLocked() []ShortcutInfo {
	out := make([]ShortcutInfo, 0, len(a.bindings))
	for _, b := range a.bindings {
		out = append(out, ShortcutInfo{Accelerator: b.accel, Action: b.action, FromConfig: b.fromConfig})
	}
	return out
}
