package shortcut

import (
	"sync/atomic"
	"testing"

	"localshortcut/accelerator"
	"localshortcut/internal/testutil"
)

func TestDefaultRegistry(t *testing.T) {
	surface := testutil.NewFakeSurface("main")
	t.Cleanup(func() { UnregisterAll(surface) })

	var calls atomic.Int32
	if err := RegisterMany(surface, []string{"Shift+F1", "Shift+F2"}, func() { calls.Add(1) }); err != nil {
		t.Fatalf("RegisterMany() error = %v", err)
	}
	ok, err := IsRegistered(surface, "shift+f2")
	if err != nil || !ok {
		t.Fatalf("IsRegistered() = %v, %v; want true, nil", ok, err)
	}

	surface.Send(testutil.KeyDown("F1", "F1", "shift"))
	if calls.Load() != 1 {
		t.Fatalf("callback calls = %d, want 1", calls.Load())
	}

	if err := UnregisterMany(surface, []string{"Shift+F1"}); err != nil {
		t.Fatalf("UnregisterMany() error = %v", err)
	}
	if err := Unregister(surface, "Shift+F2"); err != nil {
		t.Fatalf("Unregister() error = %v", err)
	}
	if got := Default().Bindings(surface); got != nil {
		t.Fatalf("Bindings() = %v, want nil", got)
	}
	if Default().Platform() != accelerator.HostPlatform() {
		t.Fatalf("Platform() = %q, want host platform", Default().Platform())
	}
}

func TestIsAccelerator(t *testing.T) {
	if !IsAccelerator("CommandOrControl+Shift+Z") {
		t.Error(`IsAccelerator("CommandOrControl+Shift+Z") = false, want true`)
	}
	if IsAccelerator("Shift") {
		t.Error(`IsAccelerator("Shift") = true, want false`)
	}
}
