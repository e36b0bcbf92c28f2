package wallet

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// NOTE: This repository assumes the following tables exist:
// - profiles (available_balance, pending_balance projection columns)
// - wallet_ledger (immutable append-only)
// - wallet_top_ups
//
// It also assumes an idempotency constraint:
// UNIQUE (profile_id, idempotency_key) on wallet_ledger

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrAlreadyDecided    = errors.New("top-up already decided")
)

// Posting describes one signed ledger posting against a profile bucket.
// Amount carries the sign: credits positive, debits negative.
type Posting struct {
	ProfileID      string
	Type           EntryType
	Bucket         Bucket
	Amount         int64
	ExternalRef    string
	IdempotencyKey string
	Metadata       string
}

// ApplyTx posts one ledger entry and updates the matching balance column, all
// within the caller's transaction. Re-posting an existing idempotency key is a
// no-op. Negative postings against a bucket with insufficient funds fail with
// ErrInsufficientFunds: the balance UPDATE carries the sufficiency predicate,
// and zero affected rows means the funds are not there.
func ApplyTx(ctx context.Context, tx *sql.Tx, p Posting, now time.Time) error {
	if p.ProfileID == "" || p.IdempotencyKey == "" || p.Amount == 0 {
		return ErrInvalidArgument
	}
	if p.Bucket != BucketAvailable && p.Bucket != BucketPending {
		return ErrInvalidArgument
	}

	if exists, err := ledgerKeyExists(ctx, tx, p.ProfileID, p.IdempotencyKey); err != nil {
		return err
	} else if exists {
		return nil
	}

	column := "available_balance"
	if p.Bucket == BucketPending {
		column = "pending_balance"
	}

	var res sql.Result
	var err error
	if p.Amount < 0 {
		res, err = tx.ExecContext(ctx,
			`UPDATE profiles SET `+column+` = `+column+` + $2, updated_at = $3
			 WHERE id = $1 AND `+column+` >= -$2`,
			p.ProfileID, p.Amount, now)
	} else {
		res, err = tx.ExecContext(ctx,
			`UPDATE profiles SET `+column+` = `+column+` + $2, updated_at = $3
			 WHERE id = $1`,
			p.ProfileID, p.Amount, now)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if p.Amount < 0 {
			// Distinguish a missing profile from insufficient funds.
			var one int
			if qerr := tx.QueryRowContext(ctx, `SELECT 1 FROM profiles WHERE id = $1`, p.ProfileID).Scan(&one); qerr != nil {
				if errors.Is(qerr, sql.ErrNoRows) {
					return ErrNotFound
				}
				return qerr
			}
			return ErrInsufficientFunds
		}
		return ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO wallet_ledger (id, profile_id, type, bucket, amount, external_ref, idempotency_key, metadata, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		uuid.NewString(), p.ProfileID, p.Type, p.Bucket, p.Amount,
		p.ExternalRef, p.IdempotencyKey, p.Metadata, now)
	return err
}

// MovePendingToAvailableTx releases escrowed funds: debits the pending bucket
// and credits the available bucket in one transaction-scoped pair of postings.
func MovePendingToAvailableTx(ctx context.Context, tx *sql.Tx, profileID string, amount int64, externalRef, idempotencyKey string, now time.Time) error {
	if amount <= 0 {
		return ErrInvalidArgument
	}
	if err := ApplyTx(ctx, tx, Posting{
		ProfileID:      profileID,
		Type:           EntryTypeRelease,
		Bucket:         BucketPending,
		Amount:         -amount,
		ExternalRef:    externalRef,
		IdempotencyKey: idempotencyKey + ":pending",
	}, now); err != nil {
		return err
	}
	return ApplyTx(ctx, tx, Posting{
		ProfileID:      profileID,
		Type:           EntryTypeRelease,
		Bucket:         BucketAvailable,
		Amount:         amount,
		ExternalRef:    externalRef,
		IdempotencyKey: idempotencyKey + ":available",
	}, now)
}

func ledgerKeyExists(ctx context.Context, tx *sql.Tx, profileID, key string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM wallet_ledger WHERE profile_id = $1 AND idempotency_key = $2 LIMIT 1`,
		profileID, key).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func getBalance(ctx context.Context, db *sql.DB, profileID string) (Balance, error) {
	const q = `
SELECT id, available_balance, pending_balance, updated_at
FROM profiles
WHERE id = $1
`
	var b Balance
	if err := db.QueryRowContext(ctx, q, profileID).Scan(
		&b.ProfileID,
		&b.Available,
		&b.Pending,
		&b.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Balance{}, ErrNotFound
		}
		return Balance{}, err
	}
	return b, nil
}

func lockTopUp(ctx context.Context, tx *sql.Tx, id string) (TopUp, error) {
	const q = `
SELECT id, user_id, amount, status, payment_proof_url, rejection_reason, decided_by, decided_at, created_at
FROM wallet_top_ups
WHERE id = $1
FOR UPDATE
`
	var t TopUp
	var proof, reason, decidedBy sql.NullString
	var decidedAt sql.NullTime
	if err := tx.QueryRowContext(ctx, q, id).Scan(
		&t.ID,
		&t.UserID,
		&t.Amount,
		&t.Status,
		&proof,
		&reason,
		&decidedBy,
		&decidedAt,
		&t.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TopUp{}, ErrNotFound
		}
		return TopUp{}, err
	}
	t.PaymentProofURL = proof.String
	t.RejectionReason = reason.String
	t.DecidedBy = decidedBy.String
	if decidedAt.Valid {
		at := decidedAt.Time
		t.DecidedAt = &at
	}
	return t, nil
}

func insertTopUp(ctx context.Context, db *sql.DB, t TopUp) error {
	const q = `
INSERT INTO wallet_top_ups (id, user_id, amount, status, payment_proof_url, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`
	_, err := db.ExecContext(ctx, q, t.ID, t.UserID, t.Amount, t.Status, nullIfEmpty(t.PaymentProofURL), t.CreatedAt)
	return err
}

func decideTopUp(ctx context.Context, tx *sql.Tx, id string, status TopUpStatus, reason, decidedBy string, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
UPDATE wallet_top_ups
SET status = $2, rejection_reason = $3, decided_by = $4, decided_at = $5
WHERE id = $1`,
		id, status, nullIfEmpty(reason), decidedBy, now)
	return err
}

func listTopUps(ctx context.Context, db *sql.DB, status TopUpStatus, limit int) ([]TopUp, error) {
	const q = `
SELECT id, user_id, amount, status, payment_proof_url, rejection_reason, decided_by, decided_at, created_at
FROM wallet_top_ups
WHERE status = $1
ORDER BY created_at
LIMIT $2
`
	rows, err := db.QueryContext(ctx, q, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TopUp
	for rows.Next() {
		var t TopUp
		var proof, reason, decidedBy sql.NullString
		var decidedAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Status, &proof, &reason, &decidedBy, &decidedAt, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.PaymentProofURL = proof.String
		t.RejectionReason = reason.String
		t.DecidedBy = decidedBy.String
		if decidedAt.Valid {
			at := decidedAt.Time
			t.DecidedAt = &at
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
