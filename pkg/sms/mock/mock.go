package mock_sms

import (
	"context"

	"github.com/yemektaxi/backend/pkg/sms"

	"github.com/stretchr/testify/mock"
)

type SMSSender struct {
	mock.Mock
}

func (m *SMSSender) Send(ctx context.Context, inp sms.SendSMSInput) error {
	args := m.Called(ctx, inp)

	return args.Error(0)
}
