package accelerator

import (
	"fmt"
	"strings"
)

// Key is one entry of the key-name table.
type Key struct {
	// Name is the lower-cased DOM KeyboardEvent.key value for the key.
	Name string
	// Code is the DOM KeyboardEvent.code physical key (US layout).
	Code string
}

// namedKeys holds the multi-letter key tokens.
var namedKeys = map[string]Key{
	"plus":               {Name: "+", Code: "Equal"},
	"space":              {Name: " ", Code: "Space"},
	"tab":                {Name: "tab", Code: "Tab"},
	"backspace":          {Name: "backspace", Code: "Backspace"},
	"delete":             {Name: "delete", Code: "Delete"},
	"insert":             {Name: "insert", Code: "Insert"},
	"return":             {Name: "enter", Code: "Enter"},
	"enter":              {Name: "enter", Code: "Enter"},
	"up":                 {Name: "arrowup", Code: "ArrowUp"},
	"down":               {Name: "arrowdown", Code: "ArrowDown"},
	"left":               {Name: "arrowleft", Code: "ArrowLeft"},
	"right":              {Name: "arrowright", Code: "ArrowRight"},
	"home":               {Name: "home", Code: "Home"},
	"end":                {Name: "end", Code: "End"},
	"pageup":             {Name: "pageup", Code: "PageUp"},
	"pagedown":           {Name: "pagedown", Code: "PageDown"},
	"escape":             {Name: "escape", Code: "Escape"},
	"esc":                {Name: "escape", Code: "Escape"},
	"volumeup":           {Name: "audiovolumeup", Code: "AudioVolumeUp"},
	"volumedown":         {Name: "audiovolumedown", Code: "AudioVolumeDown"},
	"volumemute":         {Name: "audiovolumemute", Code: "AudioVolumeMute"},
	"medianexttrack":     {Name: "mediatracknext", Code: "MediaTrackNext"},
	"mediaprevioustrack": {Name: "mediatrackprevious", Code: "MediaTrackPrevious"},
	"mediastop":          {Name: "mediastop", Code: "MediaStop"},
	"mediaplaypause":     {Name: "mediaplaypause", Code: "MediaPlayPause"},
	"printscreen":        {Name: "printscreen", Code: "PrintScreen"},
}

// symbolCodes maps punctuation to the physical key that produces it on a
// US layout, shifted or not.
var symbolCodes = map[string]string{
	")": "Digit0", "!": "Digit1", "@": "Digit2", "#": "Digit3", "$": "Digit4",
	"%": "Digit5", "^": "Digit6", "&": "Digit7", "*": "Digit8", "(": "Digit9",
	";": "Semicolon", ":": "Semicolon",
	"=": "Equal",
	",": "Comma", "<": "Comma",
	"-": "Minus", "_": "Minus",
	".": "Period", ">": "Period",
	"/": "Slash", "?": "Slash",
	"`": "Backquote", "~": "Backquote",
	"[": "BracketLeft", "{": "BracketLeft",
	"\\": "Backslash", "|": "Backslash",
	"]": "BracketRight", "}": "BracketRight",
	"'": "Quote", "\"": "Quote",
}

// maxFunctionKey is the highest F-key accepted by the grammar.
const maxFunctionKey = 24

var keyTable = buildKeyTable()

func buildKeyTable() map[string]Key {
	table := make(map[string]Key, len(namedKeys)+len(symbolCodes)+26+10+maxFunctionKey)
	for ch := 'a'; ch <= 'z'; ch++ {
		table[string(ch)] = Key{Name: string(ch), Code: "Key" + strings.ToUpper(string(ch))}
	}
	for ch := '0'; ch <= '9'; ch++ {
		table[string(ch)] = Key{Name: string(ch), Code: "Digit" + string(ch)}
	}
	for n := 1; n <= maxFunctionKey; n++ {
		table[fmt.Sprintf("f%d", n)] = Key{Name: fmt.Sprintf("f%d", n), Code: fmt.Sprintf("F%d", n)}
	}
	for symbol, code := range symbolCodes {
		table[symbol] = Key{Name: symbol, Code: code}
	}
	for name, key := range namedKeys {
		table[name] = key
	}
	return table
}

// LookupKey returns the table entry for a regular-key token. The lookup is
// case-insensitive.
func LookupKey(token string) (Key, bool) {
	key, ok := keyTable[strings.ToLower(token)]
	return key, ok
}

type modifier uint8

const (
	modShift modifier = iota + 1
	modControl
	modAlt
	modAltGr
	modOption
	modCommand
	modSuper
	modCommandOrControl
)

var modifierByName = map[string]modifier{
	"shift":            modShift,
	"control":          modControl,
	"ctrl":             modControl,
	"alt":              modAlt,
	"altgr":            modAltGr,
	"option":           modOption,
	"command":          modCommand,
	"cmd":              modCommand,
	"super":            modSuper,
	"commandorcontrol": modCommandOrControl,
	"cmdorctrl":        modCommandOrControl,
}

func lookupModifier(token string) (modifier, bool) {
	mod, ok := modifierByName[strings.ToLower(token)]
	return mod, ok
}
