package accelerator

import "strings"

// Validity is the optional "not valid" marker of a KeyEvent.
type Validity uint8

const (
	// ValidityUnset means the marker is absent. Events parsed from a valid
	// accelerator and events built from input carry no marker.
	ValidityUnset Validity = iota
	// ValidityValid is an explicit valid marker for callers that build
	// events by hand. Parsing never sets it, and Equal tells it apart from
	// ValidityUnset.
	ValidityValid
	ValidityInvalid
)

// KeyEvent is the normalized form of one simultaneous key combination.
// Key is lower-cased; Code is the DOM physical key code.
type KeyEvent struct {
	Key      string
	Code     string
	Alt      bool
	Ctrl     bool
	Meta     bool
	Shift    bool
	Validity Validity
}

// NotValid reports whether the event was produced from a malformed accelerator.
func (e KeyEvent) NotValid() bool {
	return e.Validity == ValidityInvalid
}

// Equal reports whether a and b describe the same key combination. Every
// field must match exactly, including the validity marker.
func Equal(a, b KeyEvent) bool {
	return a == b
}

// String returns a compact form such as "ctrl+shift+ArrowUp" for logs.
func (e KeyEvent) String() string {
	if e.NotValid() {
		return "<invalid>"
	}
	parts := make([]string, 0, 5)
	if e.Ctrl {
		parts = append(parts, "ctrl")
	}
	if e.Alt {
		parts = append(parts, "alt")
	}
	if e.Shift {
		parts = append(parts, "shift")
	}
	if e.Meta {
		parts = append(parts, "meta")
	}
	name := e.Code
	if name == "" {
		name = e.Key
	}
	return strings.Join(append(parts, name), "+")
}
