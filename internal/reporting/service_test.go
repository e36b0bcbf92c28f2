package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"studiovault/internal/booking"
	"studiovault/internal/wallet"
)

func TestBookingsSummary_CountsAndRevenue(t *testing.T) {
	repo := NewMemoryRepo()
	now := time.Unix(1700000000, 0).UTC()
	repo.Bookings = []booking.Booking{
		{ID: "b1", StudioID: "s1", Status: booking.StatusCompleted, CreatedAt: now,
			Breakdown: booking.Breakdown{StudioFee: 100000, ServiceFee: 10000, PlatformFee: 5000}},
		{ID: "b2", StudioID: "s1", Status: booking.StatusPending, CreatedAt: now},
		{ID: "b3", StudioID: "s2", Status: booking.StatusCompleted, CreatedAt: now,
			Breakdown: booking.Breakdown{StudioFee: 200000, ServiceFee: 20000, PlatformFee: 10000}},
	}
	svc := NewService(repo)

	tr := TimeRange{From: now.Add(-time.Hour), To: now.Add(time.Hour)}
	out, err := svc.BookingsSummary(context.Background(), BookingsSummaryRequest{Range: tr})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.TotalBookings != 3 || out.CompletedBookings != 2 || out.PendingBookings != 1 {
		t.Fatalf("unexpected counts: %+v", out)
	}
	if out.GrossRevenue != 345000 || out.PlatformRevenue != 15000 {
		t.Fatalf("unexpected revenue: gross=%d platform=%d", out.GrossRevenue, out.PlatformRevenue)
	}

	scoped, err := svc.BookingsSummary(context.Background(), BookingsSummaryRequest{Range: tr, StudioID: "s1"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if scoped.TotalBookings != 2 || scoped.GrossRevenue != 115000 {
		t.Fatalf("unexpected scoped summary: %+v", scoped)
	}
}

func TestEarningsSummary_Aggregates(t *testing.T) {
	repo := NewMemoryRepo()
	now := time.Unix(1700000000, 0).UTC()
	repo.Ledger = []wallet.LedgerEntry{
		{ID: "l1", ProfileID: "p1", Type: wallet.EntryTypeCredit, Bucket: wallet.BucketAvailable, Amount: 1000, CreatedAt: now},
		{ID: "l2", ProfileID: "p1", Type: wallet.EntryTypeDebit, Bucket: wallet.BucketAvailable, Amount: -200, CreatedAt: now},
		{ID: "l3", ProfileID: "p1", Type: wallet.EntryTypeHold, Bucket: wallet.BucketPending, Amount: 500, CreatedAt: now},
		{ID: "l4", ProfileID: "p1", Type: wallet.EntryTypeRelease, Bucket: wallet.BucketPending, Amount: -500, CreatedAt: now},
		{ID: "l5", ProfileID: "p1", Type: wallet.EntryTypeRelease, Bucket: wallet.BucketAvailable, Amount: 500, CreatedAt: now},
		{ID: "l6", ProfileID: "other", Type: wallet.EntryTypeCredit, Bucket: wallet.BucketAvailable, Amount: 9999, CreatedAt: now},
	}
	svc := NewService(repo)

	out, err := svc.EarningsSummary(context.Background(), EarningsSummaryRequest{
		ProfileID: "p1",
		Range:     TimeRange{From: now.Add(-time.Hour), To: now.Add(time.Hour)},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.TotalCredits != 2000 || out.TotalDebits != 700 || out.NetDelta != 1300 {
		t.Fatalf("unexpected totals: %+v", out)
	}
	if out.EscrowHeld != 500 || out.EscrowReleased != 500 {
		t.Fatalf("unexpected escrow: %+v", out)
	}
}

func TestSummaries_RejectInvalidRanges(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if _, err := svc.BookingsSummary(context.Background(), BookingsSummaryRequest{}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	now := time.Now()
	if _, err := svc.EarningsSummary(context.Background(), EarningsSummaryRequest{
		ProfileID: "p1",
		Range:     TimeRange{From: now, To: now.Add(-time.Hour)},
	}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for inverted range, got %v", err)
	}
	if _, err := svc.EarningsSummary(context.Background(), EarningsSummaryRequest{
		Range: TimeRange{From: now, To: now.Add(time.Hour)},
	}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for missing profile, got %v", err)
	}
}
