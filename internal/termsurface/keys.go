package termsurface

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"localshortcut/accelerator"
)

// namedKeys maps tcell keys to accelerator tokens. It is a slice because
// several tcell constants alias control codes (KeyTab is KeyCtrlI, KeyEnter
// is KeyCtrlM); the first entry for a value wins.
var namedKeys = []struct {
	key   tcell.Key
	token string
}{
	{tcell.KeyEnter, "Enter"},
	{tcell.KeyTab, "Tab"},
	{tcell.KeyBacktab, "Tab"},
	{tcell.KeyBackspace, "Backspace"},
	{tcell.KeyBackspace2, "Backspace"},
	{tcell.KeyEscape, "Escape"},
	{tcell.KeyDelete, "Delete"},
	{tcell.KeyInsert, "Insert"},
	{tcell.KeyUp, "Up"},
	{tcell.KeyDown, "Down"},
	{tcell.KeyLeft, "Left"},
	{tcell.KeyRight, "Right"},
	{tcell.KeyHome, "Home"},
	{tcell.KeyEnd, "End"},
	{tcell.KeyPgUp, "PageUp"},
	{tcell.KeyPgDn, "PageDown"},
	{tcell.KeyPrint, "PrintScreen"},
	{tcell.KeyCtrlSpace, "Space"},
}

// toInput translates a terminal key event into a key-down Input. Terminals
// report no key releases. ok is false for keys with no accelerator token.
func toInput(ev *tcell.EventKey) (accelerator.Input, bool) {
	mods := ev.Modifiers()
	shift := mods&tcell.ModShift != 0
	ctrl := mods&tcell.ModCtrl != 0

	token, ok := tokenFor(ev)
	if !ok {
		return accelerator.Input{}, false
	}
	switch {
	case ev.Key() == tcell.KeyBacktab:
		shift = true
	case ev.Key() == tcell.KeyCtrlSpace:
		ctrl = true
	case ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ && len(token) == 1:
		ctrl = true
	case ev.Key() == tcell.KeyRune && unicode.IsUpper(ev.Rune()):
		shift = true
	}

	key, ok := accelerator.LookupKey(token)
	if !ok {
		return accelerator.Input{}, false
	}
	name := key.Name
	if ev.Key() == tcell.KeyRune {
		name = string(ev.Rune())
	}

	in := accelerator.Input{
		Type: accelerator.InputKeyDown,
		Key:  name,
		Code: key.Code,
	}
	if shift {
		in.Shift = flag()
	}
	if ctrl {
		in.Control = flag()
	}
	if mods&tcell.ModAlt != 0 {
		in.Alt = flag()
	}
	if mods&tcell.ModMeta != 0 {
		in.Meta = flag()
	}
	return in, true
}

// tokenFor returns the accelerator token naming the pressed key.
func tokenFor(ev *tcell.EventKey) (string, bool) {
	k := ev.Key()
	for _, named := range namedKeys {
		if named.key == k {
			return named.token, true
		}
	}
	switch {
	case k == tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			return "Space", true
		}
		token := strings.ToLower(string(r))
		if _, ok := accelerator.LookupKey(token); ok {
			return token, true
		}
		return "", false
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return string(rune('a' + int(k-tcell.KeyCtrlA))), true
	case k >= tcell.KeyF1 && k <= tcell.KeyF24:
		return fmt.Sprintf("F%d", int(k-tcell.KeyF1)+1), true
	}
	return "", false
}

func flag() *bool {
	v := true
	return &v
}
