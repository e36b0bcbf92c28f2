package support

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("ticket not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrForbidden       = errors.New("forbidden")
	ErrTicketClosed    = errors.New("ticket is closed")
)

// Repository abstracts ticket persistence.
type Repository interface {
	InsertTicket(ctx context.Context, t Ticket) error
	GetTicket(ctx context.Context, id string) (Ticket, error)
	UpdateTicketStatus(ctx context.Context, id string, status TicketStatus, closedAt *time.Time, now time.Time) error
	TouchTicket(ctx context.Context, id string, now time.Time) error
	ListTicketsFor(ctx context.Context, openedBy string, limit int) ([]Ticket, error)
	ListOpenTickets(ctx context.Context, limit int) ([]Ticket, error)

	InsertMessage(ctx context.Context, m Message) error
	ListMessages(ctx context.Context, ticketID string) ([]Message, error)
	// MarkRead flips is_read on every message in the ticket NOT sent by
	// readerID.
	MarkRead(ctx context.Context, ticketID, readerID string, now time.Time) error
}

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// OpenTicket starts a conversation with an initial message.
func (s *Service) OpenTicket(ctx context.Context, userID, subject, body string) (Ticket, error) {
	if userID == "" || subject == "" || body == "" {
		return Ticket{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	t := Ticket{
		ID:        uuid.NewString(),
		OpenedBy:  userID,
		Subject:   subject,
		Status:    TicketStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertTicket(ctx, t); err != nil {
		return Ticket{}, err
	}
	if err := s.repo.InsertMessage(ctx, Message{
		ID:        uuid.NewString(),
		TicketID:  t.ID,
		SenderID:  userID,
		Body:      body,
		CreatedAt: now,
	}); err != nil {
		return Ticket{}, err
	}
	return t, nil
}

// PostMessage appends to an open ticket. Only the opener and admins may
// write; the handler layer decides the admin flag.
func (s *Service) PostMessage(ctx context.Context, ticketID, senderID, body string, admin bool) (Message, error) {
	if ticketID == "" || senderID == "" || body == "" {
		return Message{}, ErrInvalidArgument
	}

	t, err := s.repo.GetTicket(ctx, ticketID)
	if err != nil {
		return Message{}, err
	}
	if !admin && t.OpenedBy != senderID {
		return Message{}, ErrForbidden
	}
	if t.Status != TicketStatusOpen {
		return Message{}, ErrTicketClosed
	}

	now := s.clock().UTC()
	m := Message{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: now,
	}
	if err := s.repo.InsertMessage(ctx, m); err != nil {
		return Message{}, err
	}
	if err := s.repo.TouchTicket(ctx, ticketID, now); err != nil {
		return Message{}, err
	}
	return m, nil
}

// CloseTicket ends the conversation. Closing an already-closed ticket is a
// no-op so retries are safe.
func (s *Service) CloseTicket(ctx context.Context, ticketID, actorID string, admin bool) (Ticket, error) {
	if ticketID == "" || actorID == "" {
		return Ticket{}, ErrInvalidArgument
	}

	t, err := s.repo.GetTicket(ctx, ticketID)
	if err != nil {
		return Ticket{}, err
	}
	if !admin && t.OpenedBy != actorID {
		return Ticket{}, ErrForbidden
	}
	if t.Status == TicketStatusClosed {
		return t, nil
	}

	now := s.clock().UTC()
	if err := s.repo.UpdateTicketStatus(ctx, ticketID, TicketStatusClosed, &now, now); err != nil {
		return Ticket{}, err
	}
	t.Status = TicketStatusClosed
	t.ClosedAt = &now
	t.UpdatedAt = now
	return t, nil
}

// Messages returns the thread and marks everything the viewer had not sent
// as read.
func (s *Service) Messages(ctx context.Context, ticketID, viewerID string, admin bool) ([]Message, error) {
	if ticketID == "" || viewerID == "" {
		return nil, ErrInvalidArgument
	}

	t, err := s.repo.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !admin && t.OpenedBy != viewerID {
		return nil, ErrForbidden
	}

	msgs, err := s.repo.ListMessages(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkRead(ctx, ticketID, viewerID, s.clock().UTC()); err != nil {
		return nil, err
	}
	for i := range msgs {
		if msgs[i].SenderID != viewerID {
			msgs[i].IsRead = true
		}
	}
	return msgs, nil
}

func (s *Service) ListTickets(ctx context.Context, userID string, limit int) ([]Ticket, error) {
	if userID == "" {
		return nil, ErrInvalidArgument
	}
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListTicketsFor(ctx, userID, limit)
}

// ListOpenTickets is the admin queue view.
func (s *Service) ListOpenTickets(ctx context.Context, limit int) ([]Ticket, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListOpenTickets(ctx, limit)
}
