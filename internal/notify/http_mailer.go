package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"studiovault/internal/config"
)

// HTTPMailer posts messages to a transactional email API
// (JSON body: from, to, subject, text; bearer-token auth).
type HTTPMailer struct {
	endpoint string
	apiKey   string
	from     string
	dir      EmailDirectory
	client   *http.Client
}

func NewHTTPMailer(cfg config.EmailConfig, dir EmailDirectory) *HTTPMailer {
	return &HTTPMailer{
		endpoint: cfg.APIURL,
		apiKey:   cfg.APIKey,
		from:     cfg.From,
		dir:      dir,
		client:   &http.Client{Timeout: sendTimeout},
	}
}

type sendPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func (m *HTTPMailer) Send(ctx context.Context, msg Message) error {
	if msg.ToProfileID == "" || msg.Subject == "" {
		return ErrInvalidMessage
	}
	if m.endpoint == "" {
		return fmt.Errorf("notify: email endpoint not configured")
	}

	to, err := m.dir.Email(ctx, msg.ToProfileID)
	if err != nil {
		return fmt.Errorf("notify: resolve recipient: %w", err)
	}

	body, err := json.Marshal(sendPayload{
		From:    m.from,
		To:      to,
		Subject: msg.Subject,
		Text:    msg.Body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify: provider returned %d", resp.StatusCode)
	}
	return nil
}
