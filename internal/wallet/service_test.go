package wallet

import (
	"context"
	"errors"
	"testing"
	"time"
)

// The money paths run Postgres-specific SQL (SELECT ... FOR UPDATE, the
// balance sufficiency predicate), so end-to-end behavior is covered by
// integration tests against Postgres. What can be unit-tested without a
// database is input validation, which always fires before any SQL runs.

func TestRequestTopUp_RejectsInvalidArgs(t *testing.T) {
	svc := NewService(nil, nil, nil)

	if _, err := svc.RequestTopUp(context.Background(), "", TopUpRequest{Amount: 100}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for missing user, got %v", err)
	}
	if _, err := svc.RequestTopUp(context.Background(), "u1", TopUpRequest{Amount: 0}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for zero amount, got %v", err)
	}
	if _, err := svc.RequestTopUp(context.Background(), "u1", TopUpRequest{Amount: -5}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for negative amount, got %v", err)
	}
}

func TestGetBalance_RejectsEmptyProfile(t *testing.T) {
	svc := NewService(nil, nil, nil)
	if _, err := svc.GetBalance(context.Background(), ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestTopUpDecisions_RejectInvalidArgs(t *testing.T) {
	svc := NewService(nil, nil, nil)

	if _, err := svc.ApproveTopUp(context.Background(), "", "admin", "admin"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("approve without id: got %v", err)
	}
	if _, err := svc.ApproveTopUp(context.Background(), "t1", "", "admin"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("approve without admin: got %v", err)
	}
	if _, err := svc.RejectTopUp(context.Background(), "t1", "admin", "admin", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("reject without reason: got %v", err)
	}
}

func TestApplyTx_RejectsInvalidPostings(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		p    Posting
	}{
		{"missing profile", Posting{IdempotencyKey: "k", Bucket: BucketAvailable, Amount: 100}},
		{"missing key", Posting{ProfileID: "u1", Bucket: BucketAvailable, Amount: 100}},
		{"zero amount", Posting{ProfileID: "u1", IdempotencyKey: "k", Bucket: BucketAvailable}},
		{"bad bucket", Posting{ProfileID: "u1", IdempotencyKey: "k", Bucket: "frozen", Amount: 100}},
	}
	for _, tc := range cases {
		// Validation fires before the transaction is touched.
		if err := ApplyTx(context.Background(), nil, tc.p, now); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument, got %v", tc.name, err)
		}
	}
}

func TestMovePendingToAvailableTx_RejectsNonPositiveAmount(t *testing.T) {
	now := time.Now()
	if err := MovePendingToAvailableTx(context.Background(), nil, "u1", 0, "ref", "k", now); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for zero, got %v", err)
	}
	if err := MovePendingToAvailableTx(context.Background(), nil, "u1", -100, "ref", "k", now); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for negative, got %v", err)
	}
}
