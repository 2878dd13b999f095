package worker

import (
	"context"
	"fmt"

	"github.com/yemektaxi/backend/internal/config"
	"github.com/yemektaxi/backend/internal/templates"
	emailProvider "github.com/yemektaxi/backend/pkg/email"
	"github.com/yemektaxi/backend/pkg/logger"

	"go.uber.org/zap"
)

type emailSender struct {
	sender emailProvider.Sender
	config config.EmailConfig
}

func newEmailSender(
	sender emailProvider.Sender,
	config config.EmailConfig,
) *emailSender {
	return &emailSender{
		sender: sender,
		config: config,
	}
}

func (s *emailSender) SendSignupEmail(ctx context.Context, email string, firstName string) error {
	if !s.config.Enabled {
		logger.Debug("email disabled, signup email skipped", zap.String("email", email))
		return nil
	}

	templateInput := templates.SignupData{FirstName: firstName}
	sendInput := emailProvider.SendEmailInput{Subject: templates.SignupSubject, To: email}

	if err := sendInput.GenerateBodyFromHTML(templates.FS, s.config.Templates.Signup, templateInput); err != nil {
		return fmt.Errorf("generate email failed: %w", err)
	}

	if err := s.sender.Send(ctx, sendInput); err != nil {
		return fmt.Errorf("send email failed: %w", err)
	}

	return nil
}
