package brevo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yemektaxi/backend/pkg/email"
)

const defaultRecipientName = "Kullanıcı"

type contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type sendRequest struct {
	Sender      contact   `json:"sender"`
	To          []contact `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"htmlContent"`
}

// Sender delivers transactional mail through the Brevo HTTP API.
type Sender struct {
	apiURL     string
	apiKey     string
	from       contact
	httpClient *http.Client
}

func NewSender(apiURL, apiKey, senderName, senderEmail string) (*Sender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("brevo: empty api key")
	}

	return &Sender{
		apiURL: apiURL,
		apiKey: apiKey,
		from:   contact{Name: senderName, Email: senderEmail},
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

func (s *Sender) Send(ctx context.Context, input email.SendEmailInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(sendRequest{
		Sender:      s.from,
		To:          []contact{{Name: defaultRecipientName, Email: input.To}},
		Subject:     input.Subject,
		HTMLContent: input.Body,
	})
	if err != nil {
		return fmt.Errorf("brevo: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("brevo: create request: %w", err)
	}

	req.Header.Set("api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("brevo: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("brevo: unexpected status code: %d, body: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
