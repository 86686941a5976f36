package testutil

import (
	"errors"
	"sync"

	"localshortcut/accelerator"
)

// FakeSurface is an in-memory shortcut surface. Tests drive it with Send and
// Destroy. The zero value is not usable; call NewFakeSurface.
type FakeSurface struct {
	mu            sync.Mutex
	nextID        int
	inputHandlers map[int]func(accelerator.Input)
	destroyHooks  map[int]func()
	destroyed     bool
	title         string
	titleErr      error
	titlePanic    bool
}

// NewFakeSurface returns a live surface with the given title.
func NewFakeSurface(title string) *FakeSurface {
	return &FakeSurface{
		inputHandlers: make(map[int]func(accelerator.Input)),
		destroyHooks:  make(map[int]func()),
		title:         title,
	}
}

func (f *FakeSurface) OnBeforeInput(handler func(accelerator.Input)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := f.nextID
	f.inputHandlers[id] = handler
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.inputHandlers, id)
	}
}

func (f *FakeSurface) OnceDestroyed(handler func()) func() {
	f.mu.Lock()
	if f.destroyed {
		f.mu.Unlock()
		handler()
		return func() {}
	}
	f.nextID++
	id := f.nextID
	f.destroyHooks[id] = handler
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.destroyHooks, id)
	}
}

func (f *FakeSurface) Title() (string, error) {
	f.mu.Lock()
	title, err, panics := f.title, f.titleErr, f.titlePanic
	f.mu.Unlock()
	if panics {
		panic("title unavailable")
	}
	if f.IsDestroyed() {
		return "", errors.New("surface destroyed")
	}
	return title, err
}

func (f *FakeSurface) IsDestroyed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.destroyed
}

// FailTitle makes Title return err, or panic when err is nil.
func (f *FakeSurface) FailTitle(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titleErr = err
	f.titlePanic = err == nil
}

// Send delivers in to every input observer.
func (f *FakeSurface) Send(in accelerator.Input) {
	f.mu.Lock()
	handlers := make([]func(accelerator.Input), 0, len(f.inputHandlers))
	for _, h := range f.inputHandlers {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()
	for _, h := range handlers {
		h(in)
	}
}

// Destroy marks the surface destroyed and fires the destroy hooks once.
func (f *FakeSurface) Destroy() {
	f.mu.Lock()
	if f.destroyed {
		f.mu.Unlock()
		return
	}
	f.destroyed = true
	hooks := make([]func(), 0, len(f.destroyHooks))
	for _, h := range f.destroyHooks {
		hooks = append(hooks, h)
	}
	clear(f.destroyHooks)
	f.mu.Unlock()
	for _, h := range hooks {
		h()
	}
}

// InputObservers reports the number of attached input observers.
func (f *FakeSurface) InputObservers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inputHandlers)
}

// DestroyObservers reports the number of pending destroy hooks.
func (f *FakeSurface) DestroyObservers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.destroyHooks)
}

// KeyDown builds a key-down input from a DOM code and key with the named
// modifiers set ("alt", "control", "meta", "shift").
func KeyDown(code, key string, modifiers ...string) accelerator.Input {
	in := accelerator.Input{Type: accelerator.InputKeyDown, Code: code, Key: key}
	for _, m := range modifiers {
		switch m {
		case "alt":
			in.Alt = Ptr(true)
		case "control":
			in.Control = Ptr(true)
		case "meta":
			in.Meta = Ptr(true)
		case "shift":
			in.Shift = Ptr(true)
		}
	}
	return in
}

// KeyUp is KeyDown with the input type set to key-up.
func KeyUp(code, key string, modifiers ...string) accelerator.Input {
	in := KeyDown(code, key, modifiers...)
	in.Type = accelerator.InputKeyUp
	return in
}
