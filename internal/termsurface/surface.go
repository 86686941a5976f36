// Package termsurface turns a tcell terminal screen into a shortcut surface.
package termsurface

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"localshortcut/accelerator"
)

// ErrScreenClosed is returned by Title once the screen has stopped.
var ErrScreenClosed = errors.New("termsurface: screen closed")

// Surface delivers terminal key presses to input observers. It satisfies
// shortcut.Surface. The caller owns the screen and must Init it before Run
// and Fini it afterwards.
type Surface struct {
	screen tcell.Screen

	mu            sync.Mutex
	title         string
	status        string
	destroyed     bool
	running       bool
	nextHookID    int
	inputHandlers map[int]func(accelerator.Input)
	destroyHooks  map[int]func()
	onKey         func(*tcell.EventKey)
}

// New wraps an initialized screen.
func New(screen tcell.Screen, title string) *Surface {
	return &Surface{
		screen:        screen,
		title:         title,
		inputHandlers: make(map[int]func(accelerator.Input)),
		destroyHooks:  make(map[int]func()),
	}
}

// OnKey sets a handler for every raw key event, called after the input
// observers. Hosts use it for keys that are not shortcuts.
func (s *Surface) OnKey(handler func(*tcell.EventKey)) {
	s.mu.Lock()
	s.onKey = handler
	s.mu.Unlock()
}

func (s *Surface) OnBeforeInput(handler func(accelerator.Input)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return func() {}
	}
	s.nextHookID++
	id := s.nextHookID
	s.inputHandlers[id] = handler
	return func() {
		s.mu.Lock()
		delete(s.inputHandlers, id)
		s.mu.Unlock()
	}
}

func (s *Surface) OnceDestroyed(handler func()) func() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		handler()
		return func() {}
	}
	s.nextHookID++
	id := s.nextHookID
	s.destroyHooks[id] = handler
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.destroyHooks, id)
		s.mu.Unlock()
	}
}

func (s *Surface) Title() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return "", ErrScreenClosed
	}
	return s.title, nil
}

func (s *Surface) IsDestroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}

// SetStatus replaces the status line drawn under the title.
func (s *Surface) SetStatus(text string) {
	s.mu.Lock()
	s.status = text
	s.mu.Unlock()
	s.draw()
}

// Run polls the screen until ctx is cancelled or the screen is finalized,
// then destroys the surface. Key events are delivered on Run's goroutine,
// one at a time.
func (s *Surface) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running || s.destroyed {
		s.mu.Unlock()
		return errors.New("termsurface: Run called twice")
	}
	s.running = true
	s.mu.Unlock()
	defer s.destroy()

	stop := context.AfterFunc(ctx, func() {
		if err := s.screen.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
			slog.Debug("[DEBUG-TERM] failed to post interrupt", "error", err)
		}
	})
	defer stop()

	s.draw()
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			slog.Debug("[DEBUG-TERM] screen finalized")
			return nil
		}
		switch e := ev.(type) {
		case *tcell.EventKey:
			s.handleKey(e)
		case *tcell.EventResize:
			s.screen.Sync()
			s.draw()
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return nil
			}
		}
	}
}

func (s *Surface) handleKey(ev *tcell.EventKey) {
	s.mu.Lock()
	handlers := make([]func(accelerator.Input), 0, len(s.inputHandlers))
	for _, h := range s.inputHandlers {
		handlers = append(handlers, h)
	}
	onKey := s.onKey
	s.mu.Unlock()

	if in, ok := toInput(ev); ok {
		slog.Debug("[DEBUG-TERM] key input", "code", in.Code, "key", in.Key)
		for _, h := range handlers {
			h(in)
		}
	} else {
		slog.Debug("[DEBUG-TERM] key has no accelerator token", "key", ev.Name())
	}
	if onKey != nil {
		onKey(ev)
	}
}

func (s *Surface) draw() {
	s.mu.Lock()
	title, status := s.title, s.status
	s.mu.Unlock()

	s.screen.Clear()
	drawLine(s.screen, 0, title, tcell.StyleDefault.Bold(true))
	drawLine(s.screen, 1, status, tcell.StyleDefault)
	s.screen.Show()
}

func drawLine(screen tcell.Screen, row int, text string, style tcell.Style) {
	width, _ := screen.Size()
	col := 0
	for _, r := range text {
		if col >= width {
			return
		}
		screen.SetContent(col, row, r, nil, style)
		col++
	}
}

func (s *Surface) destroy() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.destroyed = true
	hooks := make([]func(), 0, len(s.destroyHooks))
	for _, h := range s.destroyHooks {
		hooks = append(hooks, h)
	}
	clear(s.destroyHooks)
	clear(s.inputHandlers)
	s.mu.Unlock()

	for _, h := range hooks {
		h()
	}
	slog.Debug("[DEBUG-TERM] surface destroyed")
}
