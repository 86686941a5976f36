package termsurface

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"localshortcut/accelerator"
	"localshortcut/shortcut"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	screen.SetSize(40, 5)
	return screen
}

func runSurface(t *testing.T, ctx context.Context, s *Surface) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	return done
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return")
	}
}

func TestRunDispatchesShortcuts(t *testing.T) {
	screen := newScreen(t)
	defer screen.Fini()

	surface := New(screen, "term")
	reg := shortcut.NewRegistry(shortcut.WithPlatform(accelerator.PlatformLinux))
	fired := make(chan string, 4)
	if err := reg.Register(surface, "Ctrl+Shift+Up", func() { fired <- "top" }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.Register(surface, "Ctrl+S", func() { fired <- "save" }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	keys := make(chan string, 8)
	surface.OnKey(func(ev *tcell.EventKey) { keys <- ev.Name() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := runSurface(t, ctx, surface)

	screen.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	screen.InjectKey(tcell.KeyUp, 0, tcell.ModCtrl|tcell.ModShift)
	screen.InjectKey(tcell.KeyCtrlS, 0, tcell.ModCtrl)

	for _, want := range []string{"top", "save"} {
		select {
		case got := <-fired:
			if got != want {
				t.Fatalf("fired %q, want %q", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
	for i := range 3 {
		select {
		case <-keys:
		case <-time.After(2 * time.Second):
			t.Fatalf("OnKey saw %d keys, want 3", i)
		}
	}

	cancel()
	waitDone(t, done)

	if !surface.IsDestroyed() {
		t.Fatal("surface not destroyed after Run returned")
	}
	if reg.Len() != 0 {
		t.Fatalf("registry Len() = %d, want 0", reg.Len())
	}
}

func TestRunEndsWhenScreenFinalized(t *testing.T) {
	screen := newScreen(t)
	surface := New(screen, "term")
	destroyed := make(chan struct{})
	surface.OnceDestroyed(func() { close(destroyed) })

	done := runSurface(t, context.Background(), surface)
	screen.Fini()
	waitDone(t, done)

	select {
	case <-destroyed:
	case <-time.After(time.Second):
		t.Fatal("destroy hook did not run")
	}
	if _, err := surface.Title(); err == nil {
		t.Fatal("Title() after destroy returned nil error")
	}
	if err := surface.Run(context.Background()); err == nil {
		t.Fatal("second Run() returned nil error")
	}
}

func TestOnceDestroyedAfterDestroyRunsImmediately(t *testing.T) {
	screen := newScreen(t)
	surface := New(screen, "term")
	ctx, cancel := context.WithCancel(context.Background())
	done := runSurface(t, ctx, surface)
	cancel()
	waitDone(t, done)
	screen.Fini()

	ran := false
	surface.OnceDestroyed(func() { ran = true })()
	if !ran {
		t.Fatal("OnceDestroyed on destroyed surface did not run handler")
	}
}

func TestSetStatusDrawsLines(t *testing.T) {
	screen := newScreen(t)
	defer screen.Fini()

	surface := New(screen, "Terminal")
	surface.SetStatus("fired: reload")

	if got := row(screen, 0); !strings.HasPrefix(got, "Terminal") {
		t.Errorf("row 0 = %q, want title", got)
	}
	if got := row(screen, 1); !strings.HasPrefix(got, "fired: reload") {
		t.Errorf("row 1 = %q, want status", got)
	}
	if title, err := surface.Title(); err != nil || title != "Terminal" {
		t.Errorf("Title() = %q, %v", title, err)
	}
}

func row(screen tcell.SimulationScreen, y int) string {
	cells, width, _ := screen.GetContents()
	var b strings.Builder
	for x := range width {
		runes := cells[y*width+x].Runes
		if len(runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(runes[0])
	}
	return b.String()
}
