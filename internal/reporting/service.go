package reporting

import (
	"context"
	"errors"

	"studiovault/internal/booking"
	"studiovault/internal/wallet"
)

var ErrInvalidRequest = errors.New("reporting: invalid request")

// Repository abstracts data access for reporting.
//
// Implementations should query immutable sources when possible (wallet
// ledger, completed bookings); reports must never mutate anything.

type Repository interface {
	ListBookings(ctx context.Context, r TimeRange, studioID string) ([]booking.Booking, error)
	ListLedger(ctx context.Context, profileID string, r TimeRange) ([]wallet.LedgerEntry, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func validRange(r TimeRange) bool {
	return !r.From.IsZero() && !r.To.IsZero() && r.To.After(r.From)
}

// BookingsSummary aggregates booking counts by status and revenue from
// completed bookings.
func (s *Service) BookingsSummary(ctx context.Context, req BookingsSummaryRequest) (BookingsSummary, error) {
	if !validRange(req.Range) {
		return BookingsSummary{}, ErrInvalidRequest
	}
	if s.repo == nil {
		return BookingsSummary{}, errors.New("reporting: repository not configured")
	}

	rows, err := s.repo.ListBookings(ctx, req.Range, req.StudioID)
	if err != nil {
		return BookingsSummary{}, err
	}

	out := BookingsSummary{StudioID: req.StudioID}
	for _, b := range rows {
		out.TotalBookings++
		switch b.Status {
		case booking.StatusPending:
			out.PendingBookings++
		case booking.StatusApproved:
			out.ApprovedBookings++
		case booking.StatusCompleted:
			out.CompletedBookings++
			out.GrossRevenue += b.Breakdown.Total()
			out.PlatformRevenue += b.Breakdown.PlatformFee
		case booking.StatusRejected:
			out.RejectedBookings++
		case booking.StatusExpired:
			out.ExpiredBookings++
		case booking.StatusCancelled:
			out.CancelledBookings++
		}
	}
	return out, nil
}

// EarningsSummary aggregates one profile's ledger flow in a window.
func (s *Service) EarningsSummary(ctx context.Context, req EarningsSummaryRequest) (EarningsSummary, error) {
	if req.ProfileID == "" || !validRange(req.Range) {
		return EarningsSummary{}, ErrInvalidRequest
	}
	if s.repo == nil {
		return EarningsSummary{}, errors.New("reporting: repository not configured")
	}

	entries, err := s.repo.ListLedger(ctx, req.ProfileID, req.Range)
	if err != nil {
		return EarningsSummary{}, err
	}

	out := EarningsSummary{ProfileID: req.ProfileID}
	for _, e := range entries {
		if e.Amount > 0 {
			out.TotalCredits += e.Amount
		} else {
			out.TotalDebits += -e.Amount
		}
		switch e.Type {
		case wallet.EntryTypeHold:
			if e.Bucket == wallet.BucketPending && e.Amount > 0 {
				out.EscrowHeld += e.Amount
			}
		case wallet.EntryTypeRelease:
			if e.Bucket == wallet.BucketAvailable && e.Amount > 0 {
				out.EscrowReleased += e.Amount
			}
		}
	}
	out.NetDelta = out.TotalCredits - out.TotalDebits
	return out, nil
}
