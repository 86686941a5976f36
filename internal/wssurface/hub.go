package wssurface

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// writeDeadline is the maximum time allowed for a single WebSocket write.
const writeDeadline = 5 * time.Second

// readDeadline is extended on every pong; 3 missed pings close the surface.
const readDeadline = 90 * time.Second

const pingInterval = 30 * time.Second

// maxReadMessageSize limits incoming frames. Key input frames are well under
// 1 KiB.
const maxReadMessageSize = 32 * 1024

const defaultPath = "/surface"

// defaultSurfaceName is used when the client omits the "surface" query
// parameter.
const defaultSurfaceName = "main"

var wsUpgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 4 * 1024,
}

// newSurfaceIDFn is a test seam for deterministic surface IDs.
var newSurfaceIDFn = uuid.NewString

// HubOptions configures the surface hub.
type HubOptions struct {
	// Addr is the listen address. Use "127.0.0.1:0" for an OS-assigned port.
	Addr string
	// Path is the HTTP path of the WebSocket endpoint. Default "/surface".
	Path string
	// OnConnect runs for every new surface before its first input frame is
	// read. Hosts register shortcuts here.
	OnConnect func(*Surface)
}

// Hub accepts WebSocket connections and turns each into a Surface.
type Hub struct {
	opts HubOptions

	mu       sync.RWMutex
	surfaces map[string]*Surface
	// stopping is set by Stop; connections that arrive later are closed
	// instead of tracked.
	stopping bool

	listener net.Listener
	server   *http.Server
	url      string

	// closeOnce ensures Stop is idempotent; a stopped Hub cannot be reused.
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewHub creates a Hub with the given options.
// The hub is not started until Start is called.
func NewHub(opts HubOptions) *Hub {
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:0"
	}
	if opts.Path == "" {
		opts.Path = defaultPath
	}
	if !strings.HasPrefix(opts.Path, "/") {
		opts.Path = "/" + opts.Path
	}
	return &Hub{
		opts:     opts,
		surfaces: make(map[string]*Surface),
	}
}

// Start listens on the configured address and serves connections in the
// background. The server must be stopped explicitly via Stop.
func (h *Hub) Start(ctx context.Context) error {
	if h.server != nil {
		return errors.New("wssurface: already started")
	}

	ln, err := net.Listen("tcp", h.opts.Addr)
	if err != nil {
		return fmt.Errorf("wssurface: listen: %w", err)
	}
	h.listener = ln
	h.url = fmt.Sprintf("ws://%s%s", ln.Addr().String(), h.opts.Path)

	mux := http.NewServeMux()
	mux.HandleFunc(h.opts.Path, h.handleWS)

	h.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if serveErr := h.server.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("[DEBUG-WS] server error", "error", serveErr)
		}
	}()

	slog.Info("[DEBUG-WS] surface hub started", "url", h.url)
	return nil
}

// Stop shuts down the HTTP server, closes every connection and waits for
// their surfaces to be destroyed. Safe to call multiple times.
func (h *Hub) Stop() error {
	var stopErr error
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.stopping = true
		h.mu.Unlock()

		// Shutdown does not track hijacked connections; close them afterwards.
		if h.server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.server.Shutdown(shutdownCtx); err != nil {
				stopErr = fmt.Errorf("wssurface: shutdown: %w", err)
			}
		}
		for _, s := range h.Surfaces() {
			s.closeConn("hub stop")
		}
		h.wg.Wait()
		slog.Info("[DEBUG-WS] surface hub stopped")
	})
	return stopErr
}

// URL returns the WebSocket URL (e.g. "ws://127.0.0.1:54321/surface").
// Returns empty string if the server has not started.
func (h *Hub) URL() string {
	return h.url
}

// Surfaces returns the live surfaces ordered by ID.
func (h *Hub) Surfaces() []*Surface {
	h.mu.RLock()
	out := make([]*Surface, 0, len(h.surfaces))
	for _, s := range h.surfaces {
		out = append(out, s)
	}
	h.mu.RUnlock()
	slices.SortFunc(out, func(a, b *Surface) int { return strings.Compare(a.id, b.id) })
	return out
}

// Lookup returns the live surface with the given ID.
func (h *Hub) Lookup(id string) (*Surface, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.surfaces[id]
	return s, ok
}

// handleWS upgrades HTTP to WebSocket and runs the read pump of one surface.
func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	// Registered before the hijack so Stop's Shutdown orders it before Wait.
	h.wg.Add(1)
	defer h.wg.Done()

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("[DEBUG-WS] upgrade failed", "error", err)
		return
	}

	conn.SetReadLimit(maxReadMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		slog.Warn("[DEBUG-WS] SetReadDeadline failed on new connection", "error", err)
		if closeErr := conn.Close(); closeErr != nil {
			slog.Debug("[DEBUG-WS] connection close", "error", closeErr)
		}
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	name := strings.TrimSpace(r.URL.Query().Get("surface"))
	if name == "" {
		name = defaultSurfaceName
	}
	s := newSurface(newSurfaceIDFn(), name, conn)
	if !h.track(s) {
		slog.Debug("[DEBUG-WS] hub stopping, refusing surface", "id", s.id, "surface", name)
		s.closeConn("hub stop")
		return
	}

	slog.Info("[DEBUG-WS] surface connected", "id", s.id, "surface", name, "remoteAddr", conn.RemoteAddr())

	pingDone := make(chan struct{})
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("[DEBUG-PANIC] wssurface handleWS recovered",
				"panic", rec,
				"stack", string(debug.Stack()),
			)
		}
		close(pingDone)

		h.mu.Lock()
		delete(h.surfaces, s.id)
		h.mu.Unlock()

		s.destroy()
		s.closeConn("read pump exit")
		slog.Info("[DEBUG-WS] surface disconnected", "id", s.id)
	}()

	if err := s.send(outboundMsg{Type: msgTypeHello, ID: s.id, Surface: name}); err != nil {
		slog.Debug("[DEBUG-WS] hello failed", "id", s.id, "error", err)
		return
	}
	if h.opts.OnConnect != nil {
		h.opts.OnConnect(s)
	}

	go h.pingLoop(s, pingDone)

	for {
		msgType, raw, readErr := conn.ReadMessage()
		if readErr != nil {
			if websocket.IsUnexpectedCloseError(readErr, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("[DEBUG-WS] read error", "id", s.id, "error", readErr)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		h.handleMessage(s, raw)
	}
}

// track adds s to the live set. It reports false once Stop has begun, when
// Stop's snapshot of the live set may already have been taken.
func (h *Hub) track(s *Surface) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopping {
		return false
	}
	h.surfaces[s.id] = s
	return true
}

// handleMessage applies one client frame. Input is delivered synchronously so
// inputs of one surface never overlap.
func (h *Hub) handleMessage(s *Surface, raw []byte) {
	msg, err := decodeInbound(raw)
	if err != nil {
		slog.Debug("[DEBUG-WS] invalid frame from client", "id", s.id, "error", err)
		if sendErr := s.send(outboundMsg{Type: msgTypeError, Message: err.Error()}); sendErr != nil {
			slog.Debug("[DEBUG-WS] failed to send error to client", "error", sendErr)
		}
		return
	}
	if msg.Type == msgTypeTitle {
		s.setTitle(msg.Title)
		slog.Debug("[DEBUG-WS] surface title updated", "id", s.id, "title", msg.Title)
		return
	}
	s.deliver(msg.Input)
}

// pingLoop sends periodic pings until done is closed or a ping fails.
func (h *Hub) pingLoop(s *Surface, done <-chan struct{}) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("[DEBUG-PANIC] wssurface pingLoop recovered",
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			s.closeConn("pingLoop panic recovery")
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := s.ping(); err != nil {
				slog.Debug("[DEBUG-WS] ping failed, connection likely dead", "id", s.id, "error", err)
				s.closeConn("ping failure")
				return
			}
		}
	}
}
