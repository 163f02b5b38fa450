package input

import "github.com/okian/starrating/internal/domain/rating"

// Next computes the rating that results from applying ev to current. The second
// return value is false when nothing changes: the policy blocks interaction, the
// event is not recognised, or the clamped candidate equals current.
func Next(current float64, ev Event, starCount int, policy Policy) (float64, bool) {
	if policy.Blocked() {
		return current, false
	}

	n := rating.ClampStars(starCount)
	var candidate float64

	switch ev.Kind {
	case KindClick:
		if ev.Star < 1 {
			return current, false
		}
		candidate = float64(ev.Star)
	case KindKey:
		switch ev.Command.Op {
		case Increment:
			candidate = current + 1
		case Decrement:
			candidate = current - 1
		case Reset:
			candidate = 0
		case SetDigit:
			candidate = float64(ev.Command.Digit)
		default:
			return current, false
		}
	default:
		return current, false
	}

	candidate = rating.Clamp(candidate, n)
	if candidate == current {
		return current, false
	}
	return candidate, true
}

// NextKey parses a raw key identifier and applies it. Unknown keys are no-ops.
func NextKey(current float64, key string, starCount int, policy Policy) (float64, bool) {
	cmd, ok := ParseKey(key)
	if !ok {
		return current, false
	}
	return Next(current, Key(cmd), starCount, policy)
}
