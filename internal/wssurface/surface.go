package wssurface

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"localshortcut/accelerator"
)

// ErrSurfaceClosed is returned by Title and Notify after the connection ended.
var ErrSurfaceClosed = errors.New("wssurface: surface closed")

// Surface is one connected client. It satisfies shortcut.Surface.
//
// Lock ordering (never acquire in reverse):
//
//	writeMu -> mu
type Surface struct {
	id   string
	name string
	conn *websocket.Conn

	// writeMu serializes WriteMessage calls. gorilla/websocket does not support
	// concurrent writes.
	writeMu sync.Mutex

	mu            sync.Mutex
	title         string
	destroyed     bool
	nextHookID    int
	inputHandlers map[int]func(accelerator.Input)
	destroyHooks  map[int]func()
}

func newSurface(id, name string, conn *websocket.Conn) *Surface {
	return &Surface{
		id:            id,
		name:          name,
		conn:          conn,
		title:         fmt.Sprintf("%s (%s)", name, id),
		inputHandlers: make(map[int]func(accelerator.Input)),
		destroyHooks:  make(map[int]func()),
	}
}

// ID is the hub-assigned identifier announced in the hello frame.
func (s *Surface) ID() string { return s.id }

// Name is the surface name requested by the client, used to pick bindings.
func (s *Surface) Name() string { return s.name }

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
		return "", ErrSurfaceClosed
	}
	return s.title, nil
}

func (s *Surface) IsDestroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}

// Notify tells the client that a shortcut fired.
func (s *Surface) Notify(action, accel string) error {
	return s.send(outboundMsg{Type: msgTypeShortcut, Action: action, Accelerator: accel})
}

func (s *Surface) setTitle(title string) {
	s.mu.Lock()
	s.title = title
	s.mu.Unlock()
}

// deliver hands in to every input observer. Observers run on the caller's
// goroutine without s.mu held.
func (s *Surface) deliver(in accelerator.Input) {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	handlers := make([]func(accelerator.Input), 0, len(s.inputHandlers))
	for _, h := range s.inputHandlers {
		handlers = append(handlers, h)
	}
	s.mu.Unlock()

	for _, h := range handlers {
		h(in)
	}
}

// destroy marks the surface destroyed and runs the destroy hooks once.
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
	slog.Debug("[DEBUG-WS] surface destroyed", "id", s.id)
}

func (s *Surface) send(msg outboundMsg) error {
	if s.IsDestroyed() {
		return ErrSurfaceClosed
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("wssurface: marshal %s: %w", msg.Type, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		s.closeConn("SetWriteDeadline failure")
		return fmt.Errorf("wssurface: set write deadline: %w", err)
	}
	writeErr := s.conn.WriteMessage(websocket.TextMessage, payload)
	if err := s.conn.SetWriteDeadline(time.Time{}); err != nil {
		slog.Debug("[DEBUG-WS] clearWriteDeadline failed (non-fatal)", "error", err)
	}
	if writeErr != nil {
		s.closeConn("write error")
		return fmt.Errorf("wssurface: write %s: %w", msg.Type, writeErr)
	}
	return nil
}

// ping writes a WebSocket ping under writeMu.
func (s *Surface) ping() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeDeadline))
}

// closeConn closes the connection; the read pump then destroys the surface.
// Double-close only returns an error from gorilla/websocket.
func (s *Surface) closeConn(reason string) {
	if err := s.conn.Close(); err != nil {
		slog.Debug("[DEBUG-WS] connection close", "id", s.id, "reason", reason, "error", err)
	}
}
