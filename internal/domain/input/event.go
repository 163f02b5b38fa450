// Package input maps pointer and keyboard interactions onto a new, clamped rating.
package input

import "fmt"

// Op identifies a keyboard command.
type Op uint8

// Keyboard commands.
const (
	Increment Op = iota + 1
	Decrement
	Reset
	SetDigit
)

// String returns the command name.
func (o Op) String() string {
	switch o {
	case Increment:
		return "increment"
	case Decrement:
		return "decrement"
	case Reset:
		return "reset"
	case SetDigit:
		return "set_digit"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// Command is a keyboard command. Digit is meaningful only for SetDigit.
type Command struct {
	Op    Op
	Digit int
}

// Digit builds a SetDigit command.
func Digit(d int) Command { return Command{Op: SetDigit, Digit: d} }

// Kind tags the Event variant.
type Kind uint8

// Event kinds.
const (
	KindClick Kind = iota + 1
	KindKey
)

// String returns the kind name, also used as the change source label.
func (k Kind) String() string {
	switch k {
	case KindClick:
		return "click"
	case KindKey:
		return "key"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Event is a single user interaction: either a click on a 1-based star index
// or a keyboard command.
type Event struct {
	Kind    Kind
	Star    int
	Command Command
}

// Click builds a pointer event for the star at the 1-based index.
func Click(star int) Event { return Event{Kind: KindClick, Star: star} }

// Key builds a keyboard event.
func Key(cmd Command) Event { return Event{Kind: KindKey, Command: cmd} }

// Policy gates interaction. Either flag turns every event into a no-op.
type Policy struct {
	Disabled bool
	ReadOnly bool
}

// Blocked reports whether the policy rejects all interaction.
func (p Policy) Blocked() bool { return p.Disabled || p.ReadOnly }
