package ratingctl

import (
	"errors"
	"fmt"

	service "github.com/okian/starrating/internal/app"
	"github.com/okian/starrating/internal/domain/input"
)

// ErrMismatch reports a server result that differs from the local replay.
var ErrMismatch = errors.New("server and local replay disagree")

// replay mirrors the server widget with the same pure transition.
type replay struct {
	rating    float64
	starCount int
	policy    input.Policy
	changes   int
}

func (r *replay) apply(s Step) (float64, bool) { //nolint:gocritic // hugeParam: value semantics
	var (
		next    float64
		changed bool
	)
	if s.Click {
		next, changed = input.Next(r.rating, input.Click(s.Star), r.starCount, r.policy)
	} else {
		next, changed = input.NextKey(r.rating, s.Key, r.starCount, r.policy)
	}
	if changed {
		r.rating = next
		r.changes++
	}
	return next, changed
}

// verifyStep compares one server outcome with the local replay.
func verifyStep(i int, s Step, serverRating float64, serverChanged bool, localRating float64, localChanged bool) error { //nolint:gocritic // hugeParam: value semantics
	if serverRating != localRating || serverChanged != localChanged {
		return fmt.Errorf("%w: step %d %s: server %.2f changed=%t, local %.2f changed=%t",
			ErrMismatch, i+1, s, serverRating, serverChanged, localRating, localChanged)
	}
	return nil
}

// verifyNotifications checks the change log holds exactly the newest want
// changes the server reported, newest first. sent is ordered oldest first.
func verifyNotifications(sent []string, want int, logged []service.Change) error {
	if len(logged) != want {
		return fmt.Errorf("%w: expected %d notifications, server logged %d", ErrMismatch, want, len(logged))
	}
	for i, c := range logged {
		j := len(sent) - 1 - i
		if j < 0 || sent[j] != c.ID {
			return fmt.Errorf("%w: change log entry %d is %s, not the change the server reported", ErrMismatch, i, c.ID)
		}
	}
	return nil
}
