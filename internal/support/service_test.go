package support

import (
	"context"
	"errors"
	"testing"
)

func TestOpenTicket_CreatesThreadWithFirstMessage(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	ticket, err := svc.OpenTicket(context.Background(), "user-1", "Refund question", "Where is my refund?")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if ticket.Status != TicketStatusOpen {
		t.Fatalf("expected open ticket, got %s", ticket.Status)
	}

	msgs, err := svc.Messages(context.Background(), ticket.ID, "user-1", false)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Body != "Where is my refund?" {
		t.Fatalf("unexpected thread: %+v", msgs)
	}
}

func TestPostMessage_OwnershipAndClosedTicket(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	ticket, err := svc.OpenTicket(context.Background(), "user-1", "Subject", "Body")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := svc.PostMessage(context.Background(), ticket.ID, "stranger", "hi", false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if _, err := svc.PostMessage(context.Background(), ticket.ID, "admin-1", "We are on it", true); err != nil {
		t.Fatalf("admin post: %v", err)
	}

	if _, err := svc.CloseTicket(context.Background(), ticket.ID, "user-1", false); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := svc.PostMessage(context.Background(), ticket.ID, "user-1", "one more", false); !errors.Is(err, ErrTicketClosed) {
		t.Fatalf("expected ErrTicketClosed, got %v", err)
	}
}

func TestMessages_MarksOthersMessagesRead(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	ticket, err := svc.OpenTicket(context.Background(), "user-1", "Subject", "Body")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := svc.PostMessage(context.Background(), ticket.ID, "admin-1", "Reply", true); err != nil {
		t.Fatalf("post: %v", err)
	}

	if got := repo.Unread(ticket.ID, "user-1"); got != 1 {
		t.Fatalf("expected 1 unread before viewing, got %d", got)
	}
	if _, err := svc.Messages(context.Background(), ticket.ID, "user-1", false); err != nil {
		t.Fatalf("messages: %v", err)
	}
	if got := repo.Unread(ticket.ID, "user-1"); got != 0 {
		t.Fatalf("expected 0 unread after viewing, got %d", got)
	}
	// The user's own message stays unread from the admin's perspective
	// until the admin views the thread.
	if got := repo.Unread(ticket.ID, "admin-1"); got != 1 {
		t.Fatalf("expected 1 unread for admin, got %d", got)
	}
}

func TestCloseTicket_Idempotent(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	ticket, err := svc.OpenTicket(context.Background(), "user-1", "Subject", "Body")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	first, err := svc.CloseTicket(context.Background(), ticket.ID, "user-1", false)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	second, err := svc.CloseTicket(context.Background(), ticket.ID, "user-1", false)
	if err != nil {
		t.Fatalf("second close: %v", err)
	}
	if first.Status != TicketStatusClosed || second.Status != TicketStatusClosed {
		t.Fatalf("expected closed on both calls")
	}
}

func TestListOpenTickets_ExcludesClosed(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	a, _ := svc.OpenTicket(context.Background(), "user-1", "A", "a")
	if _, err := svc.OpenTicket(context.Background(), "user-2", "B", "b"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := svc.CloseTicket(context.Background(), a.ID, "user-1", false); err != nil {
		t.Fatalf("close: %v", err)
	}

	open, err := svc.ListOpenTickets(context.Background(), 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(open) != 1 || open[0].Subject != "B" {
		t.Fatalf("unexpected open queue: %+v", open)
	}
}
