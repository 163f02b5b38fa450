package ratingctl

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// ErrBadScript reports an unparsable script step.
var ErrBadScript = errors.New("bad script")

const clickPrefix = "click:"

// Step is one scripted interaction.
type Step struct {
	Click bool
	Star  int
	Key   string
}

// String renders the step in script syntax.
func (s Step) String() string {
	if s.Click {
		return clickPrefix + strconv.Itoa(s.Star)
	}
	return s.Key
}

// ParseScript splits a comma separated script. "click:N" clicks star N; any
// other token is sent as a key identifier.
func ParseScript(script string) ([]Step, error) {
	var steps []Step
	for i, tok := range strings.Split(script, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(tok, clickPrefix); ok {
			n, err := strconv.Atoi(rest)
			if err != nil {
				return nil, fmt.Errorf("%w: step %d %q: %w", ErrBadScript, i+1, tok, err)
			}
			if n < 1 {
				return nil, fmt.Errorf("%w: step %d %q: stars start at 1", ErrBadScript, i+1, tok)
			}
			steps = append(steps, Step{Click: true, Star: n})
			continue
		}
		steps = append(steps, Step{Key: tok})
	}
	return steps, nil
}

// randomKeys mixes every command family with a few keys the widget ignores.
var randomKeys = []string{ //nolint:gochecknoglobals // read-only table
	"ArrowUp", "ArrowRight", "+", "ArrowDown", "ArrowLeft", "-",
	"Backspace", "Delete", "0", "1", "3", "5", "9", "Digit2", "Numpad4", "Tab", "a",
}

// RandomSteps generates n reproducible steps for a row of stars.
func RandomSteps(n int, stars int, seed uint64) []Step {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	steps := make([]Step, n)
	for i := range steps {
		if r.IntN(4) == 0 {
			// Occasionally click past the row to exercise clamping.
			steps[i] = Step{Click: true, Star: r.IntN(stars+2) + 1}
			continue
		}
		steps[i] = Step{Key: randomKeys[r.IntN(len(randomKeys))]}
	}
	return steps
}
