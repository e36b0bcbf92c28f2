package booking

import (
	"errors"
	"fmt"
)

// Event is a requested lifecycle change.
type Event string

const (
	EventApprove  Event = "approve"
	EventReject   Event = "reject"
	EventCancel   Event = "cancel"
	EventExpire   Event = "expire"
	EventComplete Event = "complete"
	// EventUnlock does not change status; it is modelled as a transition so
	// its legality (completed bookings only) lives in the same table.
	EventUnlock Event = "unlock"
)

var ErrIllegalTransition = errors.New("illegal booking transition")

// transitions is the single source of truth for the lifecycle. Absent
// entries are illegal. Terminal states have no outgoing transitions except
// completed, which admits the unlock event.
var transitions = map[Status]map[Event]Status{
	StatusPending: {
		EventApprove: StatusApproved,
		EventReject:  StatusRejected,
		EventCancel:  StatusCancelled,
		EventExpire:  StatusExpired,
	},
	StatusApproved: {
		EventComplete: StatusCompleted,
		EventCancel:   StatusCancelled,
	},
	StatusCompleted: {
		EventUnlock: StatusCompleted,
	},
}

// Transition returns the status that results from applying ev to cur, or
// ErrIllegalTransition when the lifecycle does not admit it.
func Transition(cur Status, ev Event) (Status, error) {
	next, ok := transitions[cur][ev]
	if !ok {
		return "", fmt.Errorf("%w: %s on %s", ErrIllegalTransition, ev, cur)
	}
	return next, nil
}

// IsTerminal reports whether no further status change is possible.
func IsTerminal(s Status) bool {
	switch s {
	case StatusRejected, StatusExpired, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}
