package shortcut

import (
	"log/slog"
	"slices"

	"localshortcut/accelerator"
)

// dispatch is the input observer attached to every surface with shortcuts.
// It scans a snapshot of the action list, so a callback that changes the
// registry only affects later inputs.
func (r *Registry) dispatch(set *actionSet, in accelerator.Input) {
	if in.IsKeyUp() {
		return
	}
	ev := accelerator.InputToKeyEvent(in)
	slog.Debug("[DEBUG-SHORTCUT] input received", "code", in.Code, "key", in.Key, "event", ev.String())

	r.mu.Lock()
	if set.detached {
		r.mu.Unlock()
		return
	}
	actions := slices.Clone(set.actions)
	r.mu.Unlock()

	for _, a := range actions {
		if !accelerator.Equal(a.event, ev) {
			continue
		}
		if !r.live(set) {
			return
		}
		slog.Debug("[DEBUG-SHORTCUT] shortcut matched", "accelerator", a.accelerator)
		if a.callback != nil {
			a.callback()
		}
		return
	}
}

// live reports whether set is still attached.
func (r *Registry) live(set *actionSet) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !set.detached
}
