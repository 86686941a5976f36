package accelerator

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAccelerator          = errors.New("not a valid shortcut sequence")
	ErrDuplicateModifier           = errors.New("duplicate modifier")
	ErrUnsupportedPlatformModifier = errors.New("modifier is not supported on this platform")
	ErrDuplicateKey                = errors.New("duplicate key")
	ErrUnknownToken                = errors.New("unknown token")
)

// Error reports a problem with an accelerator string. Err is one of the
// package sentinels and is matched with errors.Is.
type Error struct {
	Accelerator string
	// Token is the offending token; empty when the whole string is at fault.
	Token string
	Err   error
}

func (e *Error) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("accelerator %q: %v", e.Accelerator, e.Err)
	}
	return fmt.Sprintf("accelerator %q: %v %q", e.Accelerator, e.Err, e.Token)
}

func (e *Error) Unwrap() error { return e.Err }

// InvalidError returns the error reported for a string that fails Valid.
func InvalidError(accel string) error {
	return &Error{Accelerator: accel, Err: ErrInvalidAccelerator}
}
