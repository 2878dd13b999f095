package sms

import (
	"context"
	"errors"
)

type SendSMSInput struct {
	To      []string
	Message string
}

type Sender interface {
	Send(ctx context.Context, input SendSMSInput) error
}

func (i *SendSMSInput) Validate() error {
	if len(i.To) == 0 {
		return errors.New("empty recipients")
	}

	for _, to := range i.To {
		if to == "" {
			return errors.New("empty recipient number")
		}
	}

	if i.Message == "" {
		return errors.New("empty message")
	}

	return nil
}
