package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"studiovault/internal/config"
)

type staticDirectory map[string]string

func (d staticDirectory) Email(ctx context.Context, profileID string) (string, error) {
	return d[profileID], nil
}

func TestHTTPMailer_Send(t *testing.T) {
	var got sendPayload
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewHTTPMailer(config.EmailConfig{
		APIURL: srv.URL,
		APIKey: "key-1",
		From:   "no-reply@studiovault.ph",
	}, staticDirectory{"u1": "client@example.com"})

	err := m.Send(context.Background(), Message{
		ToProfileID: "u1",
		Subject:     "Booking approved",
		Body:        "See you there.",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if auth != "Bearer key-1" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if got.To != "client@example.com" || got.From != "no-reply@studiovault.ph" || got.Subject != "Booking approved" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestHTTPMailer_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	m := NewHTTPMailer(config.EmailConfig{APIURL: srv.URL, APIKey: "k", From: "f@x"}, staticDirectory{"u1": "a@b"})
	if err := m.Send(context.Background(), Message{ToProfileID: "u1", Subject: "s"}); err == nil {
		t.Fatalf("expected error on provider failure")
	}
}

func TestHTTPMailer_RejectsInvalidMessage(t *testing.T) {
	m := NewHTTPMailer(config.EmailConfig{APIURL: "http://unused", APIKey: "k", From: "f@x"}, staticDirectory{})
	if err := m.Send(context.Background(), Message{Subject: "s"}); err != ErrInvalidMessage {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}
