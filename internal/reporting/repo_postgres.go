package reporting

import (
	"context"
	"database/sql"
	"encoding/json"

	"studiovault/internal/booking"
	"studiovault/internal/wallet"
)

// PostgresRepo reads directly from the bookings and wallet_ledger tables.
// Read-only by construction; it holds no Exec statements.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) ListBookings(ctx context.Context, tr TimeRange, studioID string) ([]booking.Booking, error) {
	q := `
SELECT status, breakdown, studio_id, created_at
FROM bookings
WHERE created_at >= $1 AND created_at < $2
`
	args := []any{tr.From, tr.To}
	if studioID != "" {
		q += ` AND studio_id = $3`
		args = append(args, studioID)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []booking.Booking
	for rows.Next() {
		var b booking.Booking
		var breakdown []byte
		if err := rows.Scan(&b.Status, &breakdown, &b.StudioID, &b.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(breakdown, &b.Breakdown); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) ListLedger(ctx context.Context, profileID string, tr TimeRange) ([]wallet.LedgerEntry, error) {
	const q = `
SELECT id, profile_id, type, bucket, amount, external_ref, idempotency_key, created_at
FROM wallet_ledger
WHERE profile_id = $1 AND created_at >= $2 AND created_at < $3
ORDER BY created_at
`
	rows, err := r.db.QueryContext(ctx, q, profileID, tr.From, tr.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []wallet.LedgerEntry
	for rows.Next() {
		var e wallet.LedgerEntry
		var ref sql.NullString
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.Type, &e.Bucket, &e.Amount, &ref, &e.IdempotencyKey, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ExternalRef = ref.String
		out = append(out, e)
	}
	return out, rows.Err()
}
