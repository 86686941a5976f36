package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"localshortcut/accelerator"
	"localshortcut/internal/config"
	"localshortcut/internal/testutil"
)

func screenText(screen tcell.SimulationScreen) string {
	cells, width, _ := screen.GetContents()
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 && i%width == 0 {
			b.WriteByte('\n')
		}
		if len(cell.Runes) == 0 {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(cell.Runes[0])
	}
	return b.String()
}

func waitForText(t *testing.T, screen tcell.SimulationScreen, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(screenText(screen), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("screen never showed %q:\n%s", want, screenText(screen))
}

func startTerm(t *testing.T, cfg config.Config) (tcell.SimulationScreen, <-chan error) {
	t.Helper()
	testutil.CaptureLogBuffer(t, 0)
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	screen.SetSize(60, 4)
	t.Cleanup(screen.Fini)

	done := make(chan error, 1)
	go func() { done <- runTerm(context.Background(), screen, cfg, "main") }()
	return screen, done
}

func waitExit(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runTerm() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("runTerm() did not return")
	}
}

func termConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Platform = string(accelerator.PlatformLinux)
	return cfg
}

func TestTermShowsTriggeredAction(t *testing.T) {
	screen, done := startTerm(t, termConfig())
	waitForText(t, screen, "5 shortcuts bound")

	screen.InjectKey(tcell.KeyF5, 0, tcell.ModNone)
	waitForText(t, screen, "F5 -> reload")

	screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	waitExit(t, done)
}

func TestTermQuitAction(t *testing.T) {
	screen, done := startTerm(t, termConfig())
	waitForText(t, screen, "shortcuts bound")

	screen.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	waitExit(t, done)
}
