package accelerator

import (
	"errors"
	"strings"
	"testing"
)

func TestToKeyEvent(t *testing.T) {
	tests := []struct {
		name     string
		accel    string
		platform Platform
		want     KeyEvent
	}{
		{
			name:     "ctrl shift up",
			accel:    "Ctrl+Shift+Up",
			platform: PlatformLinux,
			want:     KeyEvent{Key: "arrowup", Code: "ArrowUp", Ctrl: true, Shift: true},
		},
		{
			name:     "letter is lower-cased",
			accel:    "Alt+K",
			platform: PlatformWindows,
			want:     KeyEvent{Key: "k", Code: "KeyK", Alt: true},
		},
		{
			name:     "digit",
			accel:    "Control+1",
			platform: PlatformLinux,
			want:     KeyEvent{Key: "1", Code: "Digit1", Ctrl: true},
		},
		{
			name:     "function key",
			accel:    "F12",
			platform: PlatformLinux,
			want:     KeyEvent{Key: "f12", Code: "F12"},
		},
		{
			name:     "plus",
			accel:    "Ctrl+Plus",
			platform: PlatformLinux,
			want:     KeyEvent{Key: "+", Code: "Equal", Ctrl: true},
		},
		{
			name:     "return alias",
			accel:    "Shift+Return",
			platform: PlatformLinux,
			want:     KeyEvent{Key: "enter", Code: "Enter", Shift: true},
		},
		{
			name:     "super sets meta everywhere",
			accel:    "Super+L",
			platform: PlatformLinux,
			want:     KeyEvent{Key: "l", Code: "KeyL", Meta: true},
		},
		{
			name:     "altgr sets alt",
			accel:    "AltGr+E",
			platform: PlatformWindows,
			want:     KeyEvent{Key: "e", Code: "KeyE", Alt: true},
		},
		{
			name:     "cmdorctrl off mac is ctrl",
			accel:    "CmdOrCtrl+S",
			platform: PlatformWindows,
			want:     KeyEvent{Key: "s", Code: "KeyS", Ctrl: true},
		},
		{
			name:     "cmdorctrl on mac is meta",
			accel:    "CommandOrControl+S",
			platform: PlatformDarwin,
			want:     KeyEvent{Key: "s", Code: "KeyS", Meta: true},
		},
		{
			name:     "command on mac",
			accel:    "Cmd+K",
			platform: PlatformDarwin,
			want:     KeyEvent{Key: "k", Code: "KeyK", Meta: true},
		},
		{
			name:     "option on mac",
			accel:    "Option+Left",
			platform: PlatformDarwin,
			want:     KeyEvent{Key: "arrowleft", Code: "ArrowLeft", Alt: true},
		},
		{
			name:     "invalid grammar is marked not valid",
			accel:    "Ctrl+Shift",
			platform: PlatformLinux,
			want:     KeyEvent{Validity: ValidityInvalid},
		},
		{
			name:     "empty is marked not valid",
			accel:    "",
			platform: PlatformLinux,
			want:     KeyEvent{Validity: ValidityInvalid},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToKeyEvent(tt.accel, tt.platform)
			if err != nil {
				t.Fatalf("ToKeyEvent(%q) returned unexpected error: %v", tt.accel, err)
			}
			if got != tt.want {
				t.Errorf("ToKeyEvent(%q) = %+v, want %+v", tt.accel, got, tt.want)
			}
		})
	}
}

func TestToKeyEventErrors(t *testing.T) {
	tests := []struct {
		name      string
		accel     string
		platform  Platform
		wantErr   error
		wantToken string
	}{
		{name: "double shift", accel: "Shift+Shift+A", platform: PlatformLinux, wantErr: ErrDuplicateModifier, wantToken: "Shift"},
		{name: "ctrl alias twice", accel: "Ctrl+Control+A", platform: PlatformLinux, wantErr: ErrDuplicateModifier, wantToken: "Control"},
		{name: "alt and altgr", accel: "Alt+AltGr+A", platform: PlatformLinux, wantErr: ErrDuplicateModifier, wantToken: "AltGr"},
		{name: "ctrl and cmdorctrl off mac", accel: "Ctrl+CmdOrCtrl+A", platform: PlatformLinux, wantErr: ErrDuplicateModifier, wantToken: "CmdOrCtrl"},
		{name: "super and cmdorctrl on mac", accel: "Super+CmdOrCtrl+A", platform: PlatformDarwin, wantErr: ErrDuplicateModifier, wantToken: "CmdOrCtrl"},
		{name: "command off mac", accel: "Cmd+K", platform: PlatformLinux, wantErr: ErrUnsupportedPlatformModifier, wantToken: "Cmd"},
		{name: "command off mac long form", accel: "Command+K", platform: PlatformWindows, wantErr: ErrUnsupportedPlatformModifier, wantToken: "Command"},
		{name: "option off mac", accel: "Option+K", platform: PlatformWindows, wantErr: ErrUnsupportedPlatformModifier, wantToken: "Option"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToKeyEvent(tt.accel, tt.platform)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ToKeyEvent(%q) error = %v, want %v", tt.accel, err, tt.wantErr)
			}
			var accelErr *Error
			if !errors.As(err, &accelErr) {
				t.Fatalf("error %T is not *Error", err)
			}
			if accelErr.Accelerator != tt.accel {
				t.Errorf("Accelerator = %q, want %q", accelErr.Accelerator, tt.accel)
			}
			if accelErr.Token != tt.wantToken {
				t.Errorf("Token = %q, want %q", accelErr.Token, tt.wantToken)
			}
		})
	}
}

func TestFoldTokensGuardsBypassedValidation(t *testing.T) {
	_, err := foldTokens("A+B", []string{"A", "B"}, PlatformLinux)
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("foldTokens two keys error = %v, want ErrDuplicateKey", err)
	}

	_, err = foldTokens("Hyper+A", []string{"Hyper", "A"}, PlatformLinux)
	if !errors.Is(err, ErrUnknownToken) {
		t.Fatalf("foldTokens unknown modifier error = %v, want ErrUnknownToken", err)
	}
}

func TestToKeyEventNeverMarksValidInput(t *testing.T) {
	modifiers := []string{"Shift", "Ctrl", "Alt", "Super"}
	for token := range keyTable {
		for mask := 0; mask < 1<<len(modifiers); mask++ {
			parts := make([]string, 0, len(modifiers)+1)
			for i, mod := range modifiers {
				if mask&(1<<i) != 0 {
					parts = append(parts, mod)
				}
			}
			accel := strings.Join(append(parts, token), "+")
			ev, err := ToKeyEvent(accel, PlatformLinux)
			if err != nil {
				t.Fatalf("ToKeyEvent(%q) returned unexpected error: %v", accel, err)
			}
			if ev.Validity != ValidityUnset {
				t.Fatalf("ToKeyEvent(%q) validity = %v, want unset", accel, ev.Validity)
			}
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := InvalidError("Ctrl+")
	if got, want := err.Error(), `accelerator "Ctrl+": not a valid shortcut sequence`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	_, err = ToKeyEvent("Cmd+K", PlatformLinux)
	if !strings.Contains(err.Error(), `"Cmd"`) {
		t.Errorf("Error() = %q, want offending token in message", err.Error())
	}
}
