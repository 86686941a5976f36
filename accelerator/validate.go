package accelerator

import "strings"

// Valid reports whether input is a well-formed accelerator: every
// "+"-separated token is a known key or modifier and exactly one token is a
// regular key. Platform support of modifiers is not checked here.
func Valid(input string) bool {
	keys := 0
	for _, token := range strings.Split(input, "+") {
		if _, ok := LookupKey(token); ok {
			keys++
			continue
		}
		if _, ok := lookupModifier(token); !ok {
			return false
		}
	}
	return keys == 1
}
