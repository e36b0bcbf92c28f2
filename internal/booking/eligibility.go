package booking

import "time"

// Time-based lifecycle decisions live here as pure functions. Transitions
// evaluate them under the row lock; sweep list queries mirror the same
// predicates in SQL.

// refundOnCancel is how much to credit back when the client cancels at now,
// given the session start. Cancelling with at least CancelRefundCutoff of
// notice refunds everything paid so far; less notice forfeits it.
func refundOnCancel(b Booking, start, now time.Time) int64 {
	if start.Sub(now) >= CancelRefundCutoff {
		return paidAmount(b)
	}
	return 0
}

// expireEligible reports whether a pending booking's payment window lapsed
// without proof. Sweep candidate lists are computed outside the row lock, so
// Expire re-checks with this after locking.
func expireEligible(b Booking, now time.Time) bool {
	return b.Status == StatusPending && b.PaymentProofURL == "" && !now.Before(b.ExpiresAt)
}

// unlockEligible reports whether a completed booking's escrow hold has
// matured.
func unlockEligible(b Booking, now time.Time) bool {
	if b.Status != StatusCompleted || b.FundsUnlocked || b.CompletedAt == nil {
		return false
	}
	return now.Sub(*b.CompletedAt) >= UnlockHold
}

// latestEnd returns the latest of the given end timestamps, or the zero time
// for an empty slice. Completion anchors on it: a multi-slot booking is not
// over until its last slot is.
func latestEnd(ends []time.Time) time.Time {
	var max time.Time
	for _, e := range ends {
		if e.After(max) {
			max = e
		}
	}
	return max
}

// ledgerKey builds the idempotency key for one of a booking's wallet
// postings. Keys are deterministic per (booking, leg), so replaying a
// transition posts nothing twice: the ledger's UNIQUE (profile_id,
// idempotency_key) constraint and the existence pre-check in wallet.ApplyTx
// turn the duplicate into a no-op.
func ledgerKey(bookingID, leg string) string {
	return "booking:" + bookingID + ":" + leg
}
