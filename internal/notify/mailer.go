package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Mailer is the provider-agnostic transactional email interface used by
// business logic.
//
// Rules:
// - No email provider HTTP calls outside notify adapters.
// - Delivery is best-effort: callers use SendAsync and never block on it.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// EmailDirectory resolves a profile id to its email address.
type EmailDirectory interface {
	Email(ctx context.Context, profileID string) (string, error)
}

// Message is addressed by profile id; the adapter resolves the address.
// Body is a pre-rendered plain-text message; templating is out of scope.
type Message struct {
	ToProfileID string `json:"to_profile_id"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

var ErrInvalidMessage = errors.New("notify: invalid message")

const sendTimeout = 10 * time.Second

// SendAsync delivers fire-and-forget: failures are logged, never retried, and
// never propagate to the caller.
func SendAsync(l *slog.Logger, m Mailer, msg Message) {
	if m == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := m.Send(ctx, msg); err != nil {
			l.Warn("email send failed", "err", err, "profile_id", msg.ToProfileID, "subject", msg.Subject)
		}
	}()
}
