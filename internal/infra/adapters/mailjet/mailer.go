package mailjet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"spectux-billing/internal/domain"
	"spectux-billing/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.Mailer = (*Mailer)(nil)

const defaultSendURL = "https://api.mailjet.com/v3.1/send"

// Mailer sends transactional mail through the Mailjet v3.1 send API.
type Mailer struct {
	publicKey  string
	privateKey string
	fromEmail  string
	fromName   string
	sendURL    string
	client     *http.Client
}

// NewMailer creates a Mailjet mailer. sendURL is overridable for tests; empty
// means the live API.
func NewMailer(publicKey, privateKey, fromEmail, fromName, sendURL string) (*Mailer, error) {
	if publicKey == "" || privateKey == "" {
		return nil, fmt.Errorf("%w: mailjet api keys are required", domain.ErrInvalidArgument)
	}
	if fromEmail == "" {
		return nil, fmt.Errorf("%w: mail sender address is required", domain.ErrInvalidArgument)
	}
	if sendURL == "" {
		sendURL = defaultSendURL
	}
	return &Mailer{
		publicKey:  publicKey,
		privateKey: privateKey,
		fromEmail:  fromEmail,
		fromName:   fromName,
		sendURL:    sendURL,
		client:     &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type sendAddress struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}

type sendMessage struct {
	From     sendAddress   `json:"From"`
	To       []sendAddress `json:"To"`
	Subject  string        `json:"Subject"`
	HTMLPart string        `json:"HTMLPart"`
}

type sendRequest struct {
	Messages []sendMessage `json:"Messages"`
}

type sendResponse struct {
	Messages []struct {
		Status string `json:"Status"`
	} `json:"Messages"`
}

func (m *Mailer) Send(ctx context.Context, mail adapter.ConfirmationMail) error {
	payload := sendRequest{
		Messages: []sendMessage{{
			From:     sendAddress{Email: m.fromEmail, Name: m.fromName},
			To:       []sendAddress{{Email: mail.ToEmail, Name: mail.ToName}},
			Subject:  mail.Subject,
			HTMLPart: mail.HTML,
		}},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.sendURL, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.SetBasicAuth(m.publicKey, m.privateKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: mailjet send: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read mailjet response: %v", domain.ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: mailjet send: status %d: %s", domain.ErrUpstream, resp.StatusCode, string(raw))
	}

	var out sendResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("%w: unmarshal mailjet response: %v", domain.ErrUpstream, err)
	}
	for _, msg := range out.Messages {
		if msg.Status != "success" {
			return fmt.Errorf("%w: mailjet message status %q", domain.ErrUpstream, msg.Status)
		}
	}
	return nil
}
