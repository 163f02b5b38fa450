// Package rating resolves a rating into per-star visual states and fill colors.
package rating

import "fmt"

// State is the visual state of a single star.
type State uint8

// Star visual states.
const (
	Empty State = iota
	Half
	Filled
)

// String returns the lower-case name of the state.
func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Half:
		return "half"
	case Filled:
		return "filled"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// MarshalText encodes the state by name so render payloads stay readable.
func (s State) MarshalText() ([]byte, error) {
	switch s {
	case Empty, Half, Filled:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownState, uint8(s))
	}
}

// UnmarshalText decodes a state name produced by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "empty":
		*s = Empty
	case "half":
		*s = Half
	case "filled":
		*s = Filled
	default:
		return fmt.Errorf("%w: %q", ErrUnknownState, string(text))
	}
	return nil
}

// Colored reports whether stars in this state take the resolved fill color.
func (s State) Colored() bool { return s == Half || s == Filled }
