package accelerator

import (
	"encoding/json"
	"testing"
)

func ptr(v bool) *bool { return &v }

func TestInputToKeyEvent(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		want  KeyEvent
	}{
		{
			name: "arrow with control and shift",
			input: Input{
				Type:    InputKeyDown,
				Code:    "ArrowUp",
				Key:     "ArrowUp",
				Control: ptr(true),
				Shift:   ptr(true),
			},
			want: KeyEvent{Key: "arrowup", Code: "ArrowUp", Ctrl: true, Shift: true},
		},
		{
			name:  "absent modifiers stay false",
			input: Input{Type: InputKeyDown, Code: "KeyA", Key: "a"},
			want:  KeyEvent{Key: "a", Code: "KeyA"},
		},
		{
			name: "explicit false modifiers",
			input: Input{
				Type:    InputKeyDown,
				Code:    "KeyA",
				Key:     "A",
				Alt:     ptr(false),
				Meta:    ptr(false),
				Control: ptr(false),
				Shift:   ptr(true),
			},
			want: KeyEvent{Key: "a", Code: "KeyA", Shift: true},
		},
		{
			name:  "alt and meta",
			input: Input{Code: "KeyK", Key: "k", Alt: ptr(true), Meta: ptr(true)},
			want:  KeyEvent{Key: "k", Code: "KeyK", Alt: true, Meta: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InputToKeyEvent(tt.input); got != tt.want {
				t.Errorf("InputToKeyEvent() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestInputJSONOmitsAbsentModifiers(t *testing.T) {
	var in Input
	if err := json.Unmarshal([]byte(`{"type":"keyDown","key":"F5","code":"F5","shift":true}`), &in); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if in.Alt != nil || in.Meta != nil || in.Control != nil {
		t.Fatalf("absent modifiers decoded as present: %+v", in)
	}
	got := InputToKeyEvent(in)
	want := KeyEvent{Key: "f5", Code: "F5", Shift: true}
	if got != want {
		t.Errorf("InputToKeyEvent() = %+v, want %+v", got, want)
	}
}

func TestInputMatchesAccelerator(t *testing.T) {
	accel, err := ToKeyEvent("Ctrl+Shift+Up", PlatformLinux)
	if err != nil {
		t.Fatalf("ToKeyEvent: %v", err)
	}
	in := Input{
		Type:    InputKeyDown,
		Code:    "ArrowUp",
		Key:     "arrowup",
		Control: ptr(true),
		Shift:   ptr(true),
	}
	if !Equal(InputToKeyEvent(in), accel) {
		t.Fatalf("input %+v does not match accelerator %+v", InputToKeyEvent(in), accel)
	}
}
