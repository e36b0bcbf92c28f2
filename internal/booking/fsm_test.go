package booking

import (
	"errors"
	"testing"
)

func TestTransition_Legal(t *testing.T) {
	cases := []struct {
		from Status
		ev   Event
		want Status
	}{
		{StatusPending, EventApprove, StatusApproved},
		{StatusPending, EventReject, StatusRejected},
		{StatusPending, EventCancel, StatusCancelled},
		{StatusPending, EventExpire, StatusExpired},
		{StatusApproved, EventComplete, StatusCompleted},
		{StatusApproved, EventCancel, StatusCancelled},
		{StatusCompleted, EventUnlock, StatusCompleted},
	}
	for _, tc := range cases {
		got, err := Transition(tc.from, tc.ev)
		if err != nil {
			t.Fatalf("Transition(%s, %s): %v", tc.from, tc.ev, err)
		}
		if got != tc.want {
			t.Fatalf("Transition(%s, %s) = %s, want %s", tc.from, tc.ev, got, tc.want)
		}
	}
}

func TestTransition_Illegal(t *testing.T) {
	cases := []struct {
		from Status
		ev   Event
	}{
		{StatusPending, EventComplete},
		{StatusPending, EventUnlock},
		{StatusApproved, EventApprove},
		{StatusApproved, EventReject},
		{StatusApproved, EventExpire},
		{StatusCompleted, EventCancel},
		{StatusCompleted, EventComplete},
		{StatusRejected, EventApprove},
		{StatusExpired, EventCancel},
		{StatusCancelled, EventApprove},
	}
	for _, tc := range cases {
		if _, err := Transition(tc.from, tc.ev); !errors.Is(err, ErrIllegalTransition) {
			t.Fatalf("Transition(%s, %s): expected ErrIllegalTransition, got %v", tc.from, tc.ev, err)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []Status{StatusRejected, StatusExpired, StatusCancelled, StatusCompleted} {
		if !IsTerminal(s) {
			t.Fatalf("expected %s to be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusApproved} {
		if IsTerminal(s) {
			t.Fatalf("expected %s to be non-terminal", s)
		}
	}
}
