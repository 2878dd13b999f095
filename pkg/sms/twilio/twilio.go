package twilio

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/yemektaxi/backend/pkg/sms"
)

type Sender struct {
	client *twilio.RestClient
	from   string
}

func NewSender(accountSID, authToken, from string) (*Sender, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, errors.New("missing twilio credentials")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &Sender{client: client, from: from}, nil
}

// Send issues one CreateMessage call per recipient and stops at the first failure.
func (s *Sender) Send(ctx context.Context, input sms.SendSMSInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	for _, to := range input.To {
		if err := ctx.Err(); err != nil {
			return err
		}

		params := &twilioApi.CreateMessageParams{}
		params.SetFrom(s.from)
		params.SetTo(to)
		params.SetBody(input.Message)

		if _, err := s.client.Api.CreateMessage(params); err != nil {
			return fmt.Errorf("twilio: create message to %s: %w", to, err)
		}
	}

	return nil
}
