package support

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const ticketColumns = `id, opened_by, subject, status, created_at, updated_at, closed_at`

func (r *PostgresRepo) InsertTicket(ctx context.Context, t Ticket) error {
	const q = `
INSERT INTO support_tickets (id, opened_by, subject, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
`
	_, err := r.db.ExecContext(ctx, q, t.ID, t.OpenedBy, t.Subject, t.Status, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *PostgresRepo) GetTicket(ctx context.Context, id string) (Ticket, error) {
	q := `SELECT ` + ticketColumns + ` FROM support_tickets WHERE id = $1`
	return scanTicket(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) UpdateTicketStatus(ctx context.Context, id string, status TicketStatus, closedAt *time.Time, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE support_tickets SET status = $2, closed_at = $3, updated_at = $4 WHERE id = $1`,
		id, status, closedAt, now)
	return err
}

func (r *PostgresRepo) TouchTicket(ctx context.Context, id string, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE support_tickets SET updated_at = $2 WHERE id = $1`,
		id, now)
	return err
}

func (r *PostgresRepo) ListTicketsFor(ctx context.Context, openedBy string, limit int) ([]Ticket, error) {
	q := `
SELECT ` + ticketColumns + `
FROM support_tickets
WHERE opened_by = $1
ORDER BY updated_at DESC
LIMIT $2
`
	return r.listTickets(ctx, q, openedBy, limit)
}

func (r *PostgresRepo) ListOpenTickets(ctx context.Context, limit int) ([]Ticket, error) {
	q := `
SELECT ` + ticketColumns + `
FROM support_tickets
WHERE status = 'open'
ORDER BY updated_at DESC
LIMIT $1
`
	return r.listTickets(ctx, q, limit)
}

func (r *PostgresRepo) listTickets(ctx context.Context, q string, args ...any) ([]Ticket, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) InsertMessage(ctx context.Context, m Message) error {
	const q = `
INSERT INTO support_messages (id, ticket_id, sender_id, body, is_read, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`
	_, err := r.db.ExecContext(ctx, q, m.ID, m.TicketID, m.SenderID, m.Body, m.IsRead, m.CreatedAt)
	return err
}

func (r *PostgresRepo) ListMessages(ctx context.Context, ticketID string) ([]Message, error) {
	const q = `
SELECT id, ticket_id, sender_id, body, is_read, created_at
FROM support_messages
WHERE ticket_id = $1
ORDER BY created_at
`
	rows, err := r.db.QueryContext(ctx, q, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.TicketID, &m.SenderID, &m.Body, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) MarkRead(ctx context.Context, ticketID, readerID string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE support_messages
SET is_read = TRUE
WHERE ticket_id = $1 AND sender_id <> $2 AND is_read = FALSE`,
		ticketID, readerID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(r rowScanner) (Ticket, error) {
	var t Ticket
	var closedAt sql.NullTime
	if err := r.Scan(&t.ID, &t.OpenedBy, &t.Subject, &t.Status, &t.CreatedAt, &t.UpdatedAt, &closedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Ticket{}, ErrNotFound
		}
		return Ticket{}, err
	}
	if closedAt.Valid {
		at := closedAt.Time
		t.ClosedAt = &at
	}
	return t, nil
}
