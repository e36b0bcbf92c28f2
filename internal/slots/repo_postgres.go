package slots

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PostgresRepo persists slots in the slots table. Equipment is stored as
// JSONB. Availability flips are owned by booking transitions, not this repo.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Insert(ctx context.Context, s Slot) error {
	equipment, err := json.Marshal(s.Equipment)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO slots (id, studio_id, date, start_time, end_time, price, is_available, equipment, location_area, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`
	_, err = r.db.ExecContext(ctx, q,
		s.ID, s.StudioID, s.Date, s.StartTime, s.EndTime, s.Price,
		s.IsAvailable, string(equipment), s.LocationArea, s.CreatedAt, s.UpdatedAt)
	return err
}

const slotColumns = `
id, studio_id, date, start_time, end_time, price, is_available, equipment, location_area, created_at, updated_at
`

func (r *PostgresRepo) Get(ctx context.Context, id string) (Slot, error) {
	q := `SELECT ` + slotColumns + ` FROM slots WHERE id = $1`
	return scanSlot(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) ListWindow(ctx context.Context, date time.Time, startTime, endTime string) ([]Slot, error) {
	q := `
SELECT ` + slotColumns + `
FROM slots
WHERE is_available = TRUE
  AND date = $1
  AND start_time < $3
  AND end_time > $2
ORDER BY studio_id, start_time
`
	rows, err := r.db.QueryContext(ctx, q, date, startTime, endTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlot(r rowScanner) (Slot, error) {
	var s Slot
	var equipment []byte
	if err := r.Scan(
		&s.ID,
		&s.StudioID,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.Price,
		&s.IsAvailable,
		&equipment,
		&s.LocationArea,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Slot{}, ErrNotFound
		}
		return Slot{}, err
	}
	if len(equipment) > 0 {
		if err := json.Unmarshal(equipment, &s.Equipment); err != nil {
			return Slot{}, err
		}
	}
	return s, nil
}
