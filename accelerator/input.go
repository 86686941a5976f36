package accelerator

import "strings"

// InputType distinguishes key-down from key-up input.
type InputType string

const (
	InputKeyDown InputType = "keyDown"
	InputKeyUp   InputType = "keyUp"
)

// Input is a raw key input record as delivered by a surface. The modifier
// fields are optional; a nil field leaves the flag false.
//
// IsAutoRepeat is decoded from the front-end for handlers that want it. It
// takes no part in matching: an auto-repeated key-down fires its shortcut
// again, like any other key-down.
type Input struct {
	Type         InputType `json:"type"`
	Key          string    `json:"key"`
	Code         string    `json:"code"`
	Alt          *bool     `json:"alt,omitempty"`
	Shift        *bool     `json:"shift,omitempty"`
	Meta         *bool     `json:"meta,omitempty"`
	Control      *bool     `json:"control,omitempty"`
	IsAutoRepeat bool      `json:"isAutoRepeat,omitempty"`
}

// IsKeyUp reports whether the input is a key release.
func (in Input) IsKeyUp() bool {
	return in.Type == InputKeyUp
}

// InputToKeyEvent normalizes a key-down input. Callers discard key-up input
// before normalizing.
func InputToKeyEvent(in Input) KeyEvent {
	ev := KeyEvent{
		Key:  strings.ToLower(in.Key),
		Code: in.Code,
	}
	if in.Alt != nil {
		ev.Alt = *in.Alt
	}
	if in.Shift != nil {
		ev.Shift = *in.Shift
	}
	if in.Meta != nil {
		ev.Meta = *in.Meta
	}
	if in.Control != nil {
		ev.Ctrl = *in.Control
	}
	return ev
}
