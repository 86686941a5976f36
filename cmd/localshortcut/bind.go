package main

import (
	"log/slog"

	"localshortcut/internal/config"
	"localshortcut/shortcut"
)

// applyBindings registers every accelerator of bindings on s. A binding
// that does not parse is logged and skipped so one typo in a hot-reloaded
// file does not disable the rest. It returns the number registered.
func applyBindings(
	reg *shortcut.Registry,
	s shortcut.Surface,
	bindings []config.Binding,
	fire func(action, accel string),
) int {
	registered := 0
	for _, b := range bindings {
		for _, accel := range b.Accelerators {
			action := b.Action
			if err := reg.Register(s, accel, func() { fire(action, accel) }); err != nil {
				slog.Warn("[WARN-CONFIG] skipping shortcut", "accelerator", accel, "action", action, "error", err)
				continue
			}
			registered++
		}
	}
	return registered
}
