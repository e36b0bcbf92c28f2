package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"studiovault/internal/audit"
	"studiovault/internal/monitoring"
	"studiovault/internal/notify"
	"studiovault/internal/pricing"
	"studiovault/internal/wallet"
	"studiovault/pkg/logger"
	"studiovault/pkg/utils"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("booking not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrForbidden       = errors.New("forbidden")
	// ErrSlotTaken means another booking claimed a requested slot first.
	ErrSlotTaken = errors.New("slot no longer available")
	// ErrNotEligible signals that a booking does not meet the conditions
	// for a time-based transition. Sweep jobs treat it as a skip, not a
	// failure.
	ErrNotEligible = errors.New("booking not eligible")
)

// Quoter computes the fee breakdown for a set of slot prices.
type Quoter interface {
	Quote(req pricing.QuoteRequest) (pricing.Quote, error)
}

// Actor identifies who is driving a transition. Admin actors bypass
// ownership checks; the lifecycle rules still apply to them.
type Actor struct {
	ID    string
	Role  string
	Admin bool
}

// Service owns the booking lifecycle. Every transition runs in a single
// database transaction covering the status change, slot availability, and
// any wallet postings, so partial updates cannot be observed.
type Service struct {
	db            *sql.DB
	quoter        Quoter
	mailer        notify.Mailer
	audit         *audit.Service
	paymentWindow time.Duration
	clock         func() time.Time
}

func NewService(db *sql.DB, quoter Quoter, mailer notify.Mailer, auditor *audit.Service, paymentWindow time.Duration) *Service {
	return &Service{
		db:            db,
		quoter:        quoter,
		mailer:        mailer,
		audit:         auditor,
		paymentWindow: paymentWindow,
		clock:         time.Now,
	}
}

type CreateRequest struct {
	SlotIDs      []string `json:"slot_ids"`
	InstructorID string   `json:"instructor_id,omitempty"`
	// WalletDeduction is how much of the total the client wants to pay
	// from their available balance, in centavos.
	WalletDeduction int64 `json:"wallet_deduction"`
}

func validateCreate(clientID string, req CreateRequest) error {
	if clientID == "" || len(req.SlotIDs) == 0 || req.WalletDeduction < 0 {
		return ErrInvalidArgument
	}
	seen := make(map[string]struct{}, len(req.SlotIDs))
	for _, id := range req.SlotIDs {
		if id == "" {
			return ErrInvalidArgument
		}
		if _, dup := seen[id]; dup {
			return ErrInvalidArgument
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Create reserves the requested slots, fixes the fee breakdown, optionally
// debits the client's wallet, and records a pending booking with a payment
// window deadline. All of it commits or none of it does.
func (s *Service) Create(ctx context.Context, clientID string, req CreateRequest) (Booking, error) {
	if err := validateCreate(clientID, req); err != nil {
		return Booking{}, err
	}

	now := s.clock().UTC()
	b := Booking{
		ID:           uuid.NewString(),
		ClientID:     clientID,
		InstructorID: req.InstructorID,
		Status:       StatusPending,
		ExpiresAt:    now.Add(s.paymentWindow),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		prices := make([]int64, 0, len(req.SlotIDs))
		for _, slotID := range req.SlotIDs {
			price, studioID, err := reserveSlot(ctx, tx, slotID, now)
			if err != nil {
				return err
			}
			if b.StudioID == "" {
				b.StudioID = studioID
			} else if b.StudioID != studioID {
				// A booking spans one studio; mixed-studio requests
				// are a client error.
				return ErrInvalidArgument
			}
			prices = append(prices, price)
			b.BookedSlotIDs = append(b.BookedSlotIDs, slotID)
		}

		customPct, founding, err := studioFeeFields(ctx, tx, b.StudioID)
		if err != nil {
			return err
		}
		quote, err := s.quoter.Quote(pricing.QuoteRequest{
			SlotPrices:       prices,
			CustomFeePercent: customPct,
			FoundingPartner:  founding,
		})
		if err != nil {
			return err
		}
		if req.WalletDeduction > quote.Total {
			return ErrInvalidArgument
		}
		b.Breakdown = Breakdown{
			StudioFee:       quote.StudioFee,
			ServiceFee:      quote.ServiceFee,
			PlatformFee:     quote.PlatformFee,
			WalletDeduction: req.WalletDeduction,
		}

		if req.WalletDeduction > 0 {
			if err := wallet.ApplyTx(ctx, tx, wallet.Posting{
				ProfileID:      clientID,
				Type:           wallet.EntryTypeDebit,
				Bucket:         wallet.BucketAvailable,
				Amount:         -req.WalletDeduction,
				ExternalRef:    b.ID,
				IdempotencyKey: ledgerKey(b.ID, "deduction"),
			}, now); err != nil {
				return err
			}
		}

		return insertBooking(ctx, tx, b)
	})
	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			monitoring.BookingConflict()
		}
		return Booking{}, err
	}

	monitoring.BookingCreated()
	s.notify(ctx, b.StudioID, "New booking request",
		fmt.Sprintf("A client requested %d slot(s) for a total of %d centavos. Awaiting payment proof.", len(b.BookedSlotIDs), b.Breakdown.Total()))
	return b, nil
}

// AttachPaymentProof records the client's proof of out-of-band payment.
// Only the owning client may attach proof, and only while the booking is
// still pending and inside its payment window.
func (s *Service) AttachPaymentProof(ctx context.Context, bookingID, clientID, proofURL string) (Booking, error) {
	if bookingID == "" || clientID == "" || proofURL == "" {
		return Booking{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	var out Booking
	err := utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		b, err := lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.ClientID != clientID {
			return ErrForbidden
		}
		if b.Status != StatusPending || now.After(b.ExpiresAt) {
			return ErrNotEligible
		}
		if err := setPaymentProof(ctx, tx, b.ID, proofURL, now); err != nil {
			return err
		}
		b.PaymentProofURL = proofURL
		b.UpdatedAt = now
		out = b
		return nil
	})
	if err != nil {
		return Booking{}, err
	}

	s.notify(ctx, out.StudioID, "Payment proof uploaded",
		"A booking is ready for your review.")
	return out, nil
}

// Approve moves a pending booking to approved. Proof of payment must be on
// file first.
func (s *Service) Approve(ctx context.Context, bookingID string, actor Actor) (Booking, error) {
	if bookingID == "" || actor.ID == "" {
		return Booking{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	var out Booking
	err := utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		b, err := lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if !actor.Admin && b.StudioID != actor.ID {
			return ErrForbidden
		}
		next, err := Transition(b.Status, EventApprove)
		if err != nil {
			return err
		}
		if b.PaymentProofURL == "" {
			return ErrNotEligible
		}
		if err := setStatus(ctx, tx, b.ID, next, now); err != nil {
			return err
		}
		b.Status = next
		b.UpdatedAt = now
		out = b
		return nil
	})
	if err != nil {
		return Booking{}, err
	}

	s.logAdminAction(ctx, actor, out.ID, "booking approved")
	s.notify(ctx, out.ClientID, "Booking approved", "Your booking has been approved. See you at the studio.")
	return out, nil
}

// Reject declines a pending booking, releases its slots, and refunds any
// wallet deduction.
func (s *Service) Reject(ctx context.Context, bookingID string, actor Actor, reason string) (Booking, error) {
	if bookingID == "" || actor.ID == "" || reason == "" {
		return Booking{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	var out Booking
	err := utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		b, err := lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if !actor.Admin && b.StudioID != actor.ID {
			return ErrForbidden
		}
		next, err := Transition(b.Status, EventReject)
		if err != nil {
			return err
		}
		if err := releaseSlots(ctx, tx, b.BookedSlotIDs, now); err != nil {
			return err
		}
		if err := s.refund(ctx, tx, b, b.Breakdown.WalletDeduction, now); err != nil {
			return err
		}
		if err := markRejected(ctx, tx, b.ID, reason, now); err != nil {
			return err
		}
		b.Status = next
		b.RejectionReason = reason
		b.UpdatedAt = now
		out = b
		return nil
	})
	if err != nil {
		return Booking{}, err
	}

	s.logAdminAction(ctx, actor, out.ID, "booking rejected")
	s.notify(ctx, out.ClientID, "Booking rejected",
		fmt.Sprintf("Your booking was rejected: %s. Any wallet deduction has been refunded.", reason))
	return out, nil
}

// Cancel lets the client back out of a pending or approved booking. Slots
// are always released. The paid amount is refunded only when the session
// starts at least CancelRefundCutoff from now.
func (s *Service) Cancel(ctx context.Context, bookingID string, actor Actor) (Booking, error) {
	if bookingID == "" || actor.ID == "" {
		return Booking{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	var out Booking
	var refunded int64
	err := utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		b, err := lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if !actor.Admin && b.ClientID != actor.ID {
			return ErrForbidden
		}
		next, err := Transition(b.Status, EventCancel)
		if err != nil {
			return err
		}
		if err := releaseSlots(ctx, tx, b.BookedSlotIDs, now); err != nil {
			return err
		}

		start, err := slotStart(ctx, tx, b.PrimarySlotID())
		if err != nil {
			return err
		}
		refunded = refundOnCancel(b, start, now)
		if err := s.refund(ctx, tx, b, refunded, now); err != nil {
			return err
		}

		if err := setStatus(ctx, tx, b.ID, next, now); err != nil {
			return err
		}
		b.Status = next
		b.UpdatedAt = now
		out = b
		return nil
	})
	if err != nil {
		return Booking{}, err
	}

	body := "Your booking has been cancelled."
	if refunded > 0 {
		body = fmt.Sprintf("Your booking has been cancelled and %d centavos were refunded to your wallet.", refunded)
	}
	s.notify(ctx, out.ClientID, "Booking cancelled", body)
	return out, nil
}

// Expire abandons a pending booking whose payment window lapsed without
// proof. Sweep-driven; returns ErrNotEligible when the booking was paid or
// already moved on.
func (s *Service) Expire(ctx context.Context, bookingID string) error {
	if bookingID == "" {
		return ErrInvalidArgument
	}

	now := s.clock().UTC()
	return utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		b, err := lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		// Re-check under lock; the booking may have been paid or decided
		// between the sweep's list query and now.
		if !expireEligible(b, now) {
			return ErrNotEligible
		}
		next, err := Transition(b.Status, EventExpire)
		if err != nil {
			return ErrNotEligible
		}
		if err := releaseSlots(ctx, tx, b.BookedSlotIDs, now); err != nil {
			return err
		}
		if err := s.refund(ctx, tx, b, b.Breakdown.WalletDeduction, now); err != nil {
			return err
		}
		return setStatus(ctx, tx, b.ID, next, now)
	})
}

// Complete settles an approved booking: provider earnings are credited to
// pending balances and the booking is stamped completed. The platform fee
// is not escrowed anywhere; it is the margin.
func (s *Service) Complete(ctx context.Context, bookingID string) error {
	if bookingID == "" {
		return ErrInvalidArgument
	}

	now := s.clock().UTC()
	return utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		b, err := lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if _, err := Transition(b.Status, EventComplete); err != nil {
			return ErrNotEligible
		}
		endsAt, err := sessionEnd(ctx, tx, b.BookedSlotIDs)
		if err != nil {
			return err
		}
		// A later slot can outlast the primary one; never settle while any
		// booked session is still running.
		if now.Before(endsAt) {
			return ErrNotEligible
		}

		studioShare, instructorShare := b.shares()
		if studioShare > 0 {
			if err := wallet.ApplyTx(ctx, tx, wallet.Posting{
				ProfileID:      b.StudioID,
				Type:           wallet.EntryTypeHold,
				Bucket:         wallet.BucketPending,
				Amount:         studioShare,
				ExternalRef:    b.ID,
				IdempotencyKey: ledgerKey(b.ID, "escrow:studio"),
			}, now); err != nil {
				return err
			}
		}
		if instructorShare > 0 {
			if err := wallet.ApplyTx(ctx, tx, wallet.Posting{
				ProfileID:      b.InstructorID,
				Type:           wallet.EntryTypeHold,
				Bucket:         wallet.BucketPending,
				Amount:         instructorShare,
				ExternalRef:    b.ID,
				IdempotencyKey: ledgerKey(b.ID, "escrow:instructor"),
			}, now); err != nil {
				return err
			}
		}
		return markCompleted(ctx, tx, b.ID, now)
	})
}

// UnlockFunds moves matured escrow from pending to available for every
// provider on the booking.
func (s *Service) UnlockFunds(ctx context.Context, bookingID string) error {
	if bookingID == "" {
		return ErrInvalidArgument
	}

	now := s.clock().UTC()
	return utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		b, err := lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if !unlockEligible(b, now) {
			return ErrNotEligible
		}

		studioShare, instructorShare := b.shares()
		if studioShare > 0 {
			if err := wallet.MovePendingToAvailableTx(ctx, tx, b.StudioID, studioShare,
				b.ID, ledgerKey(b.ID, "unlock:studio"), now); err != nil {
				return err
			}
		}
		if instructorShare > 0 {
			if err := wallet.MovePendingToAvailableTx(ctx, tx, b.InstructorID, instructorShare,
				b.ID, ledgerKey(b.ID, "unlock:instructor"), now); err != nil {
				return err
			}
		}
		return markFundsUnlocked(ctx, tx, b.ID, now)
	})
}

func (s *Service) Get(ctx context.Context, bookingID string) (Booking, error) {
	if bookingID == "" {
		return Booking{}, ErrInvalidArgument
	}
	return getBooking(ctx, s.db, bookingID)
}

// ListForProfile returns bookings where the profile is the client, studio,
// or instructor, newest first.
func (s *Service) ListForProfile(ctx context.Context, profileID string, limit int) ([]Booking, error) {
	if profileID == "" {
		return nil, ErrInvalidArgument
	}
	if limit <= 0 {
		limit = 50
	}
	return listForProfile(ctx, s.db, profileID, limit)
}

func (s *Service) ListExpiredPending(ctx context.Context, limit int) ([]string, error) {
	return listExpiredPending(ctx, s.db, s.clock().UTC(), limit)
}

func (s *Service) ListCompletable(ctx context.Context, limit int) ([]string, error) {
	return listCompletable(ctx, s.db, s.clock().UTC().Add(-CompletionLag), limit)
}

func (s *Service) ListUnlockable(ctx context.Context, limit int) ([]string, error) {
	return listUnlockable(ctx, s.db, s.clock().UTC().Add(-UnlockHold), limit)
}

// paidAmount is what the client has actually handed over so far: the full
// total once proof of the bank transfer is on file, otherwise just the
// wallet deduction.
func paidAmount(b Booking) int64 {
	if b.PaymentProofURL != "" {
		return b.Breakdown.Total()
	}
	return b.Breakdown.WalletDeduction
}

func (s *Service) refund(ctx context.Context, tx *sql.Tx, b Booking, amount int64, now time.Time) error {
	if amount <= 0 {
		return nil
	}
	return wallet.ApplyTx(ctx, tx, wallet.Posting{
		ProfileID:      b.ClientID,
		Type:           wallet.EntryTypeCredit,
		Bucket:         wallet.BucketAvailable,
		Amount:         amount,
		ExternalRef:    b.ID,
		IdempotencyKey: ledgerKey(b.ID, "refund"),
	}, now)
}

func (s *Service) logAdminAction(ctx context.Context, actor Actor, bookingID, msg string) {
	if s.audit == nil || !actor.Admin {
		return
	}
	if err := s.audit.LogAdminAction(ctx, actor.ID, actor.Role, "booking", bookingID, msg, ""); err != nil {
		logger.From(ctx).Warn("audit write failed", "err", err, "booking_id", bookingID)
	}
}

func (s *Service) notify(ctx context.Context, profileID, subject, body string) {
	if s.mailer == nil || profileID == "" {
		return
	}
	notify.SendAsync(logger.From(ctx), s.mailer, notify.Message{
		ToProfileID: profileID,
		Subject:     subject,
		Body:        body,
	})
}
