package reporting

import (
	"context"
	"sync"
	"time"

	"studiovault/internal/booking"
	"studiovault/internal/wallet"
)

// MemoryRepo is a simple in-memory reporting repository for tests and early
// development.

type MemoryRepo struct {
	mu sync.Mutex

	Bookings []booking.Booking
	Ledger   []wallet.LedgerEntry
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) ListBookings(ctx context.Context, tr TimeRange, studioID string) ([]booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]booking.Booking, 0)
	for _, b := range r.Bookings {
		if !inRange(b.CreatedAt, tr) {
			continue
		}
		if studioID != "" && b.StudioID != studioID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *MemoryRepo) ListLedger(ctx context.Context, profileID string, tr TimeRange) ([]wallet.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]wallet.LedgerEntry, 0)
	for _, e := range r.Ledger {
		if e.ProfileID != profileID {
			continue
		}
		if !inRange(e.CreatedAt, tr) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func inRange(t time.Time, tr TimeRange) bool {
	if t.IsZero() {
		return true
	}
	return !t.Before(tr.From) && t.Before(tr.To)
}
