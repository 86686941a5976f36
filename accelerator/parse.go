package accelerator

import (
	"log/slog"
	"strings"
)

// ToKeyEvent converts accel into a KeyEvent using the modifier rules of
// platform. A string that fails Valid yields an event marked
// ValidityInvalid and a nil error; errors are reserved for strings that are
// well-formed but cannot be folded (see foldTokens).
func ToKeyEvent(accel string, platform Platform) (KeyEvent, error) {
	if !Valid(accel) {
		slog.Debug("[DEBUG-SHORTCUT] accelerator failed grammar check", "accelerator", accel)
		return KeyEvent{Validity: ValidityInvalid}, nil
	}
	return foldTokens(accel, strings.Split(accel, "+"), platform)
}

// foldTokens applies every token to an empty event in order.
func foldTokens(accel string, tokens []string, platform Platform) (KeyEvent, error) {
	var ev KeyEvent
	for _, token := range tokens {
		if key, ok := LookupKey(token); ok {
			if ev.Key != "" || ev.Code != "" {
				return KeyEvent{}, &Error{Accelerator: accel, Token: token, Err: ErrDuplicateKey}
			}
			ev.Key = key.Name
			ev.Code = key.Code
			continue
		}
		mod, ok := lookupModifier(token)
		if !ok {
			return KeyEvent{}, &Error{Accelerator: accel, Token: token, Err: ErrUnknownToken}
		}
		if err := ev.applyModifier(mod, platform); err != nil {
			return KeyEvent{}, &Error{Accelerator: accel, Token: token, Err: err}
		}
	}
	return ev, nil
}

func (e *KeyEvent) applyModifier(mod modifier, platform Platform) error {
	switch mod {
	case modShift:
		return setFlag(&e.Shift)
	case modControl:
		return setFlag(&e.Ctrl)
	case modOption:
		if !platform.MacLike() {
			return ErrUnsupportedPlatformModifier
		}
		return setFlag(&e.Alt)
	case modAlt, modAltGr:
		return setFlag(&e.Alt)
	case modCommand:
		if !platform.MacLike() {
			return ErrUnsupportedPlatformModifier
		}
		return setFlag(&e.Meta)
	case modSuper:
		return setFlag(&e.Meta)
	case modCommandOrControl:
		if platform.MacLike() {
			return setFlag(&e.Meta)
		}
		return setFlag(&e.Ctrl)
	default:
		return ErrUnknownToken
	}
}

func setFlag(flag *bool) error {
	if *flag {
		return ErrDuplicateModifier
	}
	*flag = true
	return nil
}
