package sweep

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"studiovault/internal/booking"
	"studiovault/internal/profile"
)

type fakeReconciler struct {
	expired     []string
	completable []string
	unlockable  []string
	// errs maps booking id to the error its transition returns.
	errs    map[string]error
	applied []string
}

func (f *fakeReconciler) ListExpiredPending(ctx context.Context, limit int) ([]string, error) {
	return f.expired, nil
}
func (f *fakeReconciler) ListCompletable(ctx context.Context, limit int) ([]string, error) {
	return f.completable, nil
}
func (f *fakeReconciler) ListUnlockable(ctx context.Context, limit int) ([]string, error) {
	return f.unlockable, nil
}

func (f *fakeReconciler) apply(id string) error {
	f.applied = append(f.applied, id)
	return f.errs[id]
}

func (f *fakeReconciler) Expire(ctx context.Context, id string) error      { return f.apply(id) }
func (f *fakeReconciler) Complete(ctx context.Context, id string) error    { return f.apply(id) }
func (f *fakeReconciler) UnlockFunds(ctx context.Context, id string) error { return f.apply(id) }

type fakeDirectory struct {
	expired   []profile.Profile
	suspended []string
}

func (f *fakeDirectory) ListInstructorsWithExpiredDocuments(ctx context.Context, asOf time.Time, limit int) ([]profile.Profile, error) {
	return f.expired, nil
}

func (f *fakeDirectory) Suspend(ctx context.Context, id string) error {
	f.suspended = append(f.suspended, id)
	return nil
}

type deniedLocker struct{}

func (deniedLocker) TryLock(ctx context.Context, job string) (func(), bool, error) {
	return nil, false, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExpireAbandonedBookings_IsolatesFailures(t *testing.T) {
	rec := &fakeReconciler{
		expired: []string{"b1", "b2", "b3", "b4"},
		errs: map[string]error{
			"b2": booking.ErrNotEligible,
			"b3": errors.New("db down"),
		},
	}
	svc := NewService(rec, &fakeDirectory{}, nil, nil, nil, testLogger())

	res := svc.ExpireAbandonedBookings(context.Background())
	if res.Processed != 2 || res.Skipped != 1 || res.Failed != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(rec.applied) != 4 {
		t.Fatalf("expected all 4 items attempted, got %d", len(rec.applied))
	}
}

func TestRunAll_RunsEveryJob(t *testing.T) {
	rec := &fakeReconciler{
		expired:     []string{"b1"},
		completable: []string{"b2"},
		unlockable:  []string{"b3"},
	}
	dir := &fakeDirectory{expired: []profile.Profile{{ID: "i1"}}}
	svc := NewService(rec, dir, nil, nil, nil, testLogger())

	results := svc.RunAll(context.Background())
	if len(results) != 4 {
		t.Fatalf("expected 4 job results, got %d", len(results))
	}
	for _, r := range results {
		if r.Processed != 1 {
			t.Fatalf("job %s: expected 1 processed, got %+v", r.Job, r)
		}
	}
	if len(dir.suspended) != 1 || dir.suspended[0] != "i1" {
		t.Fatalf("expected instructor i1 suspended, got %v", dir.suspended)
	}
}

func TestRunBatch_HeldLockSkipsJob(t *testing.T) {
	rec := &fakeReconciler{expired: []string{"b1"}}
	svc := NewService(rec, &fakeDirectory{}, nil, nil, deniedLocker{}, testLogger())

	res := svc.ExpireAbandonedBookings(context.Background())
	if res.Processed != 0 || res.Failed != 0 {
		t.Fatalf("expected no work under held lock, got %+v", res)
	}
	if len(rec.applied) != 0 {
		t.Fatalf("expected no transitions attempted, got %v", rec.applied)
	}
}
