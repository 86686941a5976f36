package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"localshortcut/internal/testutil"
)

// execute runs the root command against a config path inside a temp dir.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	testutil.CaptureLogBuffer(t, 0)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", cfgPath, "--platform", "linux"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantErr   bool
		wantLines []string
	}{
		{
			name:      "valid accelerators",
			args:      []string{"check", "CmdOrCtrl+Shift+K", "F5"},
			wantLines: []string{"ok\tCmdOrCtrl+Shift+K\tctrl+shift+KeyK", "ok\tF5\tF5"},
		},
		{
			name:      "invalid grammar",
			args:      []string{"check", "Ctrl+", "F5"},
			wantErr:   true,
			wantLines: []string{"fail\tCtrl+\t", "ok\tF5\tF5"},
		},
		{
			name:      "mac-only modifier",
			args:      []string{"check", "Cmd+K"},
			wantErr:   true,
			wantLines: []string{"fail\tCmd+K\t"},
		},
		{
			name:      "config file",
			args:      []string{"check"},
			wantLines: []string{"config ok: "},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			lines := strings.Split(strings.TrimSpace(out), "\n")
			if len(lines) != len(tt.wantLines) {
				t.Fatalf("output = %q, want %d lines", out, len(tt.wantLines))
			}
			for i, want := range tt.wantLines {
				if !strings.HasPrefix(lines[i], want) {
					t.Errorf("line %d = %q, want prefix %q", i, lines[i], want)
				}
			}
		})
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		accel   string
		want    keyEventJSON
		wantErr bool
	}{
		{
			name:  "modifiers and arrow",
			accel: "Ctrl+Alt+Up",
			want: keyEventJSON{
				Accelerator: "Ctrl+Alt+Up", Platform: "linux",
				Key: "arrowup", Code: "ArrowUp", Alt: true, Ctrl: true,
			},
		},
		{
			name:  "not a shortcut sequence",
			accel: "Ctrl+Shift",
			want:  keyEventJSON{Accelerator: "Ctrl+Shift", Platform: "linux", NotValid: true},
		},
		{name: "duplicate modifier", accel: "Ctrl+Control+A", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "parse", tt.accel)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Execute() error = nil, output %q", out)
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			var got keyEventJSON
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("output %q is not JSON: %v", out, err)
			}
			if got != tt.want {
				t.Errorf("descriptor = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseRequiresOneArgument(t *testing.T) {
	if _, err := execute(t, "parse"); err == nil {
		t.Fatal("parse without arguments returned nil error")
	}
}

func TestInvalidConfigFails(t *testing.T) {
	testutil.CaptureLogBuffer(t, 0)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, cfgPath, "log_level: loud\n")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfgPath, "check"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("Execute() with invalid config returned nil error")
	}
}
