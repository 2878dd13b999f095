package netgsm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yemektaxi/backend/pkg/sms"
)

type message struct {
	Msg string `json:"msg"`
	No  string `json:"no"`
}

type sendRequest struct {
	MsgHeader   string    `json:"msgheader"`
	Messages    []message `json:"messages"`
	Encoding    string    `json:"encoding"`
	IysFilter   string    `json:"iysfilter"`
	PartnerCode string    `json:"partnercode"`
}

// Sender posts messages to the NetGSM REST v2 API with basic auth.
type Sender struct {
	url        string
	username   string
	password   string
	header     string
	httpClient *http.Client
}

func NewSender(url, username, password, header string) (*Sender, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("netgsm: missing credentials")
	}

	return &Sender{
		url:      url,
		username: username,
		password: password,
		header:   header,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

func (s *Sender) Send(ctx context.Context, input sms.SendSMSInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	messages := make([]message, 0, len(input.To))
	for _, to := range input.To {
		messages = append(messages, message{Msg: input.Message, No: to})
	}

	body, err := json.Marshal(sendRequest{
		MsgHeader: s.header,
		Messages:  messages,
		Encoding:  "TR",
	})
	if err != nil {
		return fmt.Errorf("netgsm: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("netgsm: create request: %w", err)
	}

	req.SetBasicAuth(s.username, s.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("netgsm: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("netgsm: unexpected status code: %d, body: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
