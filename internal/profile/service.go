package profile

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("profile not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

type Service struct {
	db    *sql.DB
	clock func() time.Time
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, clock: time.Now}
}

const profileColumns = `
id, role, display_name, email, location_area,
available_balance, pending_balance, is_suspended,
custom_fee_percent, is_founding_partner, document_expires_at,
created_at, updated_at
`

func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	if id == "" {
		return Profile{}, ErrInvalidArgument
	}
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(s.db.QueryRowContext(ctx, q, id))
}

func (s *Service) GetByEmail(ctx context.Context, email string) (Profile, error) {
	if email == "" {
		return Profile{}, ErrInvalidArgument
	}
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`
	return scanProfile(s.db.QueryRowContext(ctx, q, email))
}

// Email resolves a profile id to its email address (notify.EmailDirectory).
func (s *Service) Email(ctx context.Context, profileID string) (string, error) {
	if profileID == "" {
		return "", ErrInvalidArgument
	}
	var email string
	err := s.db.QueryRowContext(ctx, `SELECT email FROM profiles WHERE id = $1`, profileID).Scan(&email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return email, nil
}

// ListInstructorsWithExpiredDocuments returns instructors whose certification
// documents expired on or before asOf and who are not yet suspended.
func (s *Service) ListInstructorsWithExpiredDocuments(ctx context.Context, asOf time.Time, limit int) ([]Profile, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `
SELECT ` + profileColumns + `
FROM profiles
WHERE role = 'instructor'
  AND is_suspended = FALSE
  AND document_expires_at IS NOT NULL
  AND document_expires_at <= $1
ORDER BY document_expires_at
LIMIT $2
`
	rows, err := s.db.QueryContext(ctx, q, asOf, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Service) Suspend(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidArgument
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET is_suspended = TRUE, updated_at = $2 WHERE id = $1`,
		id, s.clock().UTC())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(r rowScanner) (Profile, error) {
	var p Profile
	var locationArea, customFee sql.NullString
	var docExpires sql.NullTime
	if err := r.Scan(
		&p.ID,
		&p.Role,
		&p.DisplayName,
		&p.Email,
		&locationArea,
		&p.AvailableBalance,
		&p.PendingBalance,
		&p.IsSuspended,
		&customFee,
		&p.IsFoundingPartner,
		&docExpires,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	p.LocationArea = locationArea.String
	p.CustomFeePercent = customFee.String
	if docExpires.Valid {
		t := docExpires.Time
		p.DocumentExpiresAt = &t
	}
	return p, nil
}
