package accelerator

import "testing"

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "single letter", input: "A", want: true},
		{name: "lowercase letter", input: "a", want: true},
		{name: "modifier and arrow", input: "Ctrl+Shift+Up", want: true},
		{name: "mixed case tokens", input: "cTrL+sHiFt+uP", want: true},
		{name: "function key", input: "Alt+F4", want: true},
		{name: "highest function key", input: "F24", want: true},
		{name: "plus key", input: "CmdOrCtrl+Plus", want: true},
		{name: "symbol key", input: "Ctrl+/", want: true},
		{name: "media key", input: "MediaPlayPause", want: true},
		{name: "every modifier", input: "Command+Control+Alt+Shift+Super+K", want: true},
		{name: "option is grammatical on every platform", input: "Option+K", want: true},
		{name: "altgr", input: "AltGr+E", want: true},
		{name: "empty", input: "", want: false},
		{name: "modifiers only", input: "Ctrl+Shift", want: false},
		{name: "two keys", input: "Ctrl+A+B", want: false},
		{name: "two named keys", input: "Up+Down", want: false},
		{name: "trailing separator", input: "Ctrl+", want: false},
		{name: "leading separator", input: "+A", want: false},
		{name: "unknown modifier", input: "Hyper+A", want: false},
		{name: "unknown key", input: "Ctrl+Foo", want: false},
		{name: "function key out of range", input: "F25", want: false},
		{name: "padded token", input: "Ctrl + A", want: false},
		{name: "literal plus is not a token", input: "Ctrl++", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(tt.input); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidAcceptsEveryTableKey(t *testing.T) {
	for token := range keyTable {
		if !Valid(token) {
			t.Errorf("Valid(%q) = false, want true", token)
		}
		if !Valid("Shift+" + token) {
			t.Errorf("Valid(%q) = false, want true", "Shift+"+token)
		}
	}
}

func TestValidRejectsEveryKeyPair(t *testing.T) {
	for first := range namedKeys {
		for second := range namedKeys {
			accel := first + "+" + second
			if Valid(accel) {
				t.Fatalf("Valid(%q) = true, want false", accel)
			}
		}
	}
}
