package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

const bookingColumns = `
id, client_id, instructor_id, studio_id, booked_slot_ids, status, breakdown,
payment_proof_url, rejection_reason, expires_at, completed_at, funds_unlocked,
created_at, updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(r rowScanner) (Booking, error) {
	var b Booking
	var slotIDs, breakdown []byte
	var instructor, proof, reason sql.NullString
	var completedAt sql.NullTime
	if err := r.Scan(
		&b.ID,
		&b.ClientID,
		&instructor,
		&b.StudioID,
		&slotIDs,
		&b.Status,
		&breakdown,
		&proof,
		&reason,
		&b.ExpiresAt,
		&completedAt,
		&b.FundsUnlocked,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Booking{}, ErrNotFound
		}
		return Booking{}, err
	}
	b.InstructorID = instructor.String
	b.PaymentProofURL = proof.String
	b.RejectionReason = reason.String
	if completedAt.Valid {
		at := completedAt.Time
		b.CompletedAt = &at
	}
	if err := json.Unmarshal(slotIDs, &b.BookedSlotIDs); err != nil {
		return Booking{}, err
	}
	if err := json.Unmarshal(breakdown, &b.Breakdown); err != nil {
		return Booking{}, err
	}
	return b, nil
}

// lockBooking reads the row FOR UPDATE so lifecycle checks and the postings
// that follow them see a stable state.
func lockBooking(ctx context.Context, tx *sql.Tx, id string) (Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	return scanBooking(tx.QueryRowContext(ctx, q, id))
}

func getBooking(ctx context.Context, db *sql.DB, id string) (Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(db.QueryRowContext(ctx, q, id))
}

func insertBooking(ctx context.Context, tx *sql.Tx, b Booking) error {
	slotIDs, err := json.Marshal(b.BookedSlotIDs)
	if err != nil {
		return err
	}
	breakdown, err := json.Marshal(b.Breakdown)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO bookings (id, client_id, instructor_id, studio_id, booked_slot_ids, status, breakdown,
                      payment_proof_url, rejection_reason, expires_at, funds_unlocked, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
`
	_, err = tx.ExecContext(ctx, q,
		b.ID, b.ClientID, nullIfEmpty(b.InstructorID), b.StudioID,
		string(slotIDs), b.Status, string(breakdown),
		nullIfEmpty(b.PaymentProofURL), nullIfEmpty(b.RejectionReason),
		b.ExpiresAt, b.FundsUnlocked, b.CreatedAt, b.UpdatedAt)
	return err
}

func setStatus(ctx context.Context, tx *sql.Tx, id string, st Status, now time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`,
		id, st, now)
	return err
}

func markRejected(ctx context.Context, tx *sql.Tx, id, reason string, now time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = $2, rejection_reason = $3, updated_at = $4 WHERE id = $1`,
		id, StatusRejected, reason, now)
	return err
}

func markCompleted(ctx context.Context, tx *sql.Tx, id string, now time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = $2, completed_at = $3, updated_at = $3 WHERE id = $1`,
		id, StatusCompleted, now)
	return err
}

func markFundsUnlocked(ctx context.Context, tx *sql.Tx, id string, now time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE bookings SET funds_unlocked = TRUE, updated_at = $2 WHERE id = $1`,
		id, now)
	return err
}

func setPaymentProof(ctx context.Context, tx *sql.Tx, id, url string, now time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE bookings SET payment_proof_url = $2, updated_at = $3 WHERE id = $1`,
		id, url, now)
	return err
}

// reserveSlot atomically claims a slot. The availability predicate makes
// concurrent claims race on the row update; the loser sees zero rows and
// gets ErrSlotTaken.
func reserveSlot(ctx context.Context, tx *sql.Tx, slotID string, now time.Time) (price int64, studioID string, err error) {
	const q = `
UPDATE slots SET is_available = FALSE, updated_at = $2
WHERE id = $1 AND is_available = TRUE
RETURNING price, studio_id
`
	err = tx.QueryRowContext(ctx, q, slotID, now).Scan(&price, &studioID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", ErrSlotTaken
	}
	return price, studioID, err
}

func releaseSlots(ctx context.Context, tx *sql.Tx, slotIDs []string, now time.Time) error {
	for _, id := range slotIDs {
		if _, err := tx.ExecContext(ctx,
			`UPDATE slots SET is_available = TRUE, updated_at = $2 WHERE id = $1`,
			id, now); err != nil {
			return err
		}
	}
	return nil
}

// slotStart returns the session start as a timestamp composed from the
// slot's date and start time columns.
func slotStart(ctx context.Context, tx *sql.Tx, slotID string) (time.Time, error) {
	var start time.Time
	err := tx.QueryRowContext(ctx,
		`SELECT date + start_time::time FROM slots WHERE id = $1`,
		slotID).Scan(&start)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNotFound
	}
	return start, err
}

// sessionEnd returns the latest end timestamp across the booking's slots.
// Completion anchors here, not on the primary slot, so a later slot that is
// still in progress keeps the booking open.
func sessionEnd(ctx context.Context, tx *sql.Tx, slotIDs []string) (time.Time, error) {
	ends := make([]time.Time, 0, len(slotIDs))
	for _, id := range slotIDs {
		var end time.Time
		err := tx.QueryRowContext(ctx,
			`SELECT date + end_time::time FROM slots WHERE id = $1`,
			id).Scan(&end)
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, ErrNotFound
		}
		if err != nil {
			return time.Time{}, err
		}
		ends = append(ends, end)
	}
	return latestEnd(ends), nil
}

// studioFeeFields reads the fee attributes that customize a studio's quote.
func studioFeeFields(ctx context.Context, tx *sql.Tx, studioID string) (customFeePercent string, foundingPartner bool, err error) {
	var custom sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT custom_fee_percent, is_founding_partner FROM profiles WHERE id = $1`,
		studioID).Scan(&custom, &foundingPartner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, ErrNotFound
	}
	return custom.String, foundingPartner, err
}

func listIDs(ctx context.Context, db *sql.DB, q string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// listExpiredPending returns pending bookings past their payment window
// that still have no payment proof.
func listExpiredPending(ctx context.Context, db *sql.DB, now time.Time, limit int) ([]string, error) {
	const q = `
SELECT id FROM bookings
WHERE status = 'pending'
  AND expires_at < $1
  AND payment_proof_url IS NULL
ORDER BY expires_at
LIMIT $2
`
	return listIDs(ctx, db, q, now, limit)
}

// listCompletable returns approved bookings whose every booked slot ended
// before the cutoff. No slot may still end at or after it; a multi-slot
// booking stays open until its last slot is over.
func listCompletable(ctx context.Context, db *sql.DB, cutoff time.Time, limit int) ([]string, error) {
	const q = `
SELECT b.id
FROM bookings b
WHERE b.status = 'approved'
  AND NOT EXISTS (
    SELECT 1
    FROM slots s
    WHERE s.id IN (SELECT jsonb_array_elements_text(b.booked_slot_ids))
      AND (s.date + s.end_time::time) >= $1
  )
ORDER BY b.created_at
LIMIT $2
`
	return listIDs(ctx, db, q, cutoff, limit)
}

// listUnlockable returns completed bookings whose escrow hold has matured.
func listUnlockable(ctx context.Context, db *sql.DB, cutoff time.Time, limit int) ([]string, error) {
	const q = `
SELECT id FROM bookings
WHERE status = 'completed'
  AND funds_unlocked = FALSE
  AND completed_at <= $1
ORDER BY completed_at
LIMIT $2
`
	return listIDs(ctx, db, q, cutoff, limit)
}

func listForProfile(ctx context.Context, db *sql.DB, profileID string, limit int) ([]Booking, error) {
	q := `
SELECT ` + bookingColumns + `
FROM bookings
WHERE client_id = $1 OR studio_id = $1 OR instructor_id = $1
ORDER BY created_at DESC
LIMIT $2
`
	rows, err := db.QueryContext(ctx, q, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
