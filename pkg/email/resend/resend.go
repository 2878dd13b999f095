package resend

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go"

	"github.com/yemektaxi/backend/pkg/email"
)

type Sender struct {
	client *resend.Client
	from   string
}

func NewSender(apiKey, senderName, senderEmail string) (*Sender, error) {
	if apiKey == "" {
		return nil, errors.New("resend: empty api key")
	}

	return &Sender{
		client: resend.NewClient(apiKey),
		from:   fmt.Sprintf("%s <%s>", senderName, senderEmail),
	}, nil
}

func (s *Sender) Send(ctx context.Context, input email.SendEmailInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.client.Emails.Send(&resend.SendEmailRequest{
		From:    s.from,
		To:      []string{input.To},
		Subject: input.Subject,
		Html:    input.Body,
	})
	if err != nil {
		return fmt.Errorf("resend: send email: %w", err)
	}

	return nil
}
