package shortcut

import (
	"log/slog"
	"slices"
	"sync"

	"localshortcut/accelerator"
)

type action struct {
	accelerator string
	event       accelerator.KeyEvent
	callback    Callback
}

// actionSet is the per-surface entry. All fields except surface are guarded
// by Registry.mu. A set is in the table iff detached is false.
type actionSet struct {
	surface Surface
	actions []action

	detached        bool
	removeInput     func()
	removeDestroyed func()
}

// Registry is a per-surface shortcut table. The zero value is not usable;
// create one with NewRegistry. A Registry is safe for concurrent use.
//
// The registry never holds its lock while calling into a surface or a
// callback, so callbacks may register and unregister freely.
type Registry struct {
	platform accelerator.Platform

	mu   sync.Mutex
	sets map[Surface]*actionSet
}

// Option configures a Registry.
type Option func(*Registry)

// WithPlatform selects the modifier rules used to parse accelerators.
// The default is the host platform.
func WithPlatform(p accelerator.Platform) Option {
	return func(r *Registry) {
		if p != "" {
			r.platform = p
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		platform: accelerator.HostPlatform(),
		sets:     make(map[Surface]*actionSet),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Platform returns the platform whose modifier rules the registry applies.
func (r *Registry) Platform() accelerator.Platform {
	return r.platform
}

// Parse validates accel and converts it to the KeyEvent the registry
// matches on. Two accelerators name the same shortcut when their events are
// equal.
func (r *Registry) Parse(accel string) (accelerator.KeyEvent, error) {
	if !accelerator.Valid(accel) {
		return accelerator.KeyEvent{}, accelerator.InvalidError(accel)
	}
	return accelerator.ToKeyEvent(accel, r.platform)
}

// Register binds accel to callback on s. The first registration on a surface
// attaches the input observer and the destroy hook.
//
// Registering on a destroyed surface is allowed but useless: the destroy
// hook runs immediately and drops the entry again.
func (r *Registry) Register(s Surface, accel string, callback Callback) error {
	if s == nil {
		return ErrNilSurface
	}
	ev, err := r.Parse(accel)
	if err != nil {
		return err
	}

	r.mu.Lock()
	set, ok := r.sets[s]
	if !ok {
		set = &actionSet{surface: s}
		r.sets[s] = set
	}
	set.actions = append(set.actions, action{accelerator: accel, event: ev, callback: callback})
	r.mu.Unlock()

	title := describe(s)
	if !ok {
		slog.Debug("[DEBUG-SHORTCUT] attaching input observer", "surface", title)
		r.attach(set)
	}
	slog.Debug("[DEBUG-SHORTCUT] registered shortcut", "surface", title, "accelerator", accel, "event", ev.String())
	return nil
}

// RegisterMany registers every accelerator in order under the same callback.
// It stops at the first failure; accelerators before it stay registered.
func (r *Registry) RegisterMany(s Surface, accels []string, callback Callback) error {
	for _, accel := range accels {
		if err := r.Register(s, accel, callback); err != nil {
			return err
		}
	}
	return nil
}

// Unregister removes the first shortcut on s equal to accel. It is a no-op
// on a destroyed surface and on a surface without shortcuts. Removing the
// last shortcut detaches the surface.
func (r *Registry) Unregister(s Surface, accel string) error {
	if s == nil || s.IsDestroyed() {
		return nil
	}
	ev, err := r.Parse(accel)
	if err != nil {
		return err
	}

	r.mu.Lock()
	set, ok := r.sets[s]
	if !ok {
		r.mu.Unlock()
		return nil
	}
	idx := slices.IndexFunc(set.actions, func(a action) bool {
		return accelerator.Equal(a.event, ev)
	})
	if idx >= 0 {
		set.actions = slices.Delete(set.actions, idx, idx+1)
	}
	var removers []func()
	if len(set.actions) == 0 {
		removers = r.detachLocked(set)
	}
	r.mu.Unlock()

	if idx < 0 {
		slog.Debug("[DEBUG-SHORTCUT] unregister found no matching shortcut", "surface", describe(s), "accelerator", accel)
	} else {
		slog.Debug("[DEBUG-SHORTCUT] unregistered shortcut", "surface", describe(s), "accelerator", accel)
	}
	runRemovers(removers)
	return nil
}

// UnregisterMany unregisters every accelerator in order, stopping at the
// first failure.
func (r *Registry) UnregisterMany(s Surface, accels []string) error {
	for _, accel := range accels {
		if err := r.Unregister(s, accel); err != nil {
			return err
		}
	}
	return nil
}

// UnregisterAll removes every shortcut on s and detaches it.
func (r *Registry) UnregisterAll(s Surface) {
	if s == nil {
		return
	}
	r.mu.Lock()
	set, ok := r.sets[s]
	var removers []func()
	if ok {
		removers = r.detachLocked(set)
	}
	r.mu.Unlock()
	if !ok {
		return
	}
	slog.Debug("[DEBUG-SHORTCUT] unregistered all shortcuts", "surface", describe(s))
	runRemovers(removers)
}

// IsRegistered reports whether a shortcut equal to accel is registered on s.
func (r *Registry) IsRegistered(s Surface, accel string) (bool, error) {
	ev, err := r.Parse(accel)
	if err != nil {
		return false, err
	}
	if s == nil {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.sets[s]
	if !ok {
		return false, nil
	}
	return slices.ContainsFunc(set.actions, func(a action) bool {
		return accelerator.Equal(a.event, ev)
	}), nil
}

// Bindings returns the accelerators registered on s in match order.
func (r *Registry) Bindings(s Surface) []string {
	if s == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.sets[s]
	if !ok {
		return nil
	}
	out := make([]string, len(set.actions))
	for i, a := range set.actions {
		out[i] = a.accelerator
	}
	return out
}

// Len returns the number of surfaces that currently have shortcuts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sets)
}

// attach subscribes the dispatcher and the destroy hook. It runs without the
// lock held; if the set was detached meanwhile the hooks are removed again.
func (r *Registry) attach(set *actionSet) {
	removeInput := set.surface.OnBeforeInput(func(in accelerator.Input) {
		r.dispatch(set, in)
	})
	removeDestroyed := set.surface.OnceDestroyed(func() {
		slog.Debug("[DEBUG-SHORTCUT] surface destroyed, dropping shortcuts")
		r.detach(set)
	})

	r.mu.Lock()
	if set.detached {
		r.mu.Unlock()
		runRemovers([]func(){removeInput, removeDestroyed})
		return
	}
	set.removeInput = removeInput
	set.removeDestroyed = removeDestroyed
	r.mu.Unlock()
}

// detach drops set from the table and removes its hooks. Only the first call
// has any effect.
func (r *Registry) detach(set *actionSet) {
	r.mu.Lock()
	removers := r.detachLocked(set)
	r.mu.Unlock()
	runRemovers(removers)
}

// detachLocked marks set detached and deletes its table entry. It returns
// the hook removers to run once the lock is released, or nil if set was
// already detached. Hooks not yet stored by attach are removed there.
func (r *Registry) detachLocked(set *actionSet) []func() {
	if set.detached {
		return nil
	}
	set.detached = true
	set.actions = nil
	if current, ok := r.sets[set.surface]; ok && current == set {
		delete(r.sets, set.surface)
	}
	removers := []func(){set.removeInput, set.removeDestroyed}
	set.removeInput, set.removeDestroyed = nil, nil
	slog.Debug("[DEBUG-SHORTCUT] detached input observer")
	return removers
}

func runRemovers(removers []func()) {
	for _, remove := range removers {
		if remove != nil {
			remove()
		}
	}
}
