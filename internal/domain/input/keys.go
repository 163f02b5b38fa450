package input

import "strings"

// Key and code identifiers as delivered by key-down events.
var keyCommands = map[string]Command{ //nolint:gochecknoglobals // read-only lookup table
	"+":              {Op: Increment},
	"ArrowRight":     {Op: Increment},
	"ArrowUp":        {Op: Increment},
	"NumpadAdd":      {Op: Increment},
	"-":              {Op: Decrement},
	"\u2212":         {Op: Decrement}, // minus sign
	"ArrowDown":      {Op: Decrement},
	"ArrowLeft":      {Op: Decrement},
	"NumpadSubtract": {Op: Decrement},
	"Backspace":      {Op: Reset},
	"Delete":         {Op: Reset},
}

// ParseKey maps a key or code identifier to a command. Unknown identifiers
// return false and must be treated as no-ops.
func ParseKey(key string) (Command, bool) {
	if cmd, ok := keyCommands[key]; ok {
		return cmd, true
	}

	d, ok := digitKey(key)
	if !ok {
		return Command{}, false
	}
	if d == 0 {
		return Command{Op: Reset}, true
	}
	return Digit(d), true
}

// digitKey accepts "N", "DigitN" and "NumpadN".
func digitKey(key string) (int, bool) {
	for _, prefix := range []string{"Digit", "Numpad"} {
		if rest, found := strings.CutPrefix(key, prefix); found {
			key = rest
			break
		}
	}
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '0'), true
}
