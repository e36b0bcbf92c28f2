package support

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is a simple in-memory repository useful for tests.
// It is not intended for production use.
type MemoryRepo struct {
	mu       sync.Mutex
	tickets  map[string]Ticket
	messages map[string][]Message
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		tickets:  make(map[string]Ticket),
		messages: make(map[string][]Message),
	}
}

func (r *MemoryRepo) InsertTicket(ctx context.Context, t Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[t.ID] = t
	return nil
}

func (r *MemoryRepo) GetTicket(ctx context.Context, id string) (Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return Ticket{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepo) UpdateTicketStatus(ctx context.Context, id string, status TicketStatus, closedAt *time.Time, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return ErrNotFound
	}
	t.Status = status
	t.ClosedAt = closedAt
	t.UpdatedAt = now
	r.tickets[id] = t
	return nil
}

func (r *MemoryRepo) TouchTicket(ctx context.Context, id string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return ErrNotFound
	}
	t.UpdatedAt = now
	r.tickets[id] = t
	return nil
}

func (r *MemoryRepo) ListTicketsFor(ctx context.Context, openedBy string, limit int) ([]Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Ticket
	for _, t := range r.tickets {
		if t.OpenedBy == openedBy {
			out = append(out, t)
		}
	}
	sortTickets(out)
	return capTickets(out, limit), nil
}

func (r *MemoryRepo) ListOpenTickets(ctx context.Context, limit int) ([]Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Ticket
	for _, t := range r.tickets {
		if t.Status == TicketStatusOpen {
			out = append(out, t)
		}
	}
	sortTickets(out)
	return capTickets(out, limit), nil
}

func (r *MemoryRepo) InsertMessage(ctx context.Context, m Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[m.TicketID] = append(r.messages[m.TicketID], m)
	return nil
}

func (r *MemoryRepo) ListMessages(ctx context.Context, ticketID string) ([]Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[ticketID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) MarkRead(ctx context.Context, ticketID, readerID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[ticketID]
	for i := range msgs {
		if msgs[i].SenderID != readerID {
			msgs[i].IsRead = true
		}
	}
	r.messages[ticketID] = msgs
	return nil
}

// Unread reports how many messages in the ticket the reader has not seen.
// Test helper.
func (r *MemoryRepo) Unread(ticketID, readerID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.messages[ticketID] {
		if m.SenderID != readerID && !m.IsRead {
			n++
		}
	}
	return n
}

func sortTickets(ts []Ticket) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].UpdatedAt.After(ts[j].UpdatedAt) })
}

func capTickets(ts []Ticket, limit int) []Ticket {
	if limit > 0 && len(ts) > limit {
		return ts[:limit]
	}
	return ts
}
