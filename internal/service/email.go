package service

import (
	"context"
	"fmt"

	"github.com/yemektaxi/backend/internal/config"
	"github.com/yemektaxi/backend/internal/templates"
	emailProvider "github.com/yemektaxi/backend/pkg/email"
	"github.com/yemektaxi/backend/pkg/logger"

	"go.uber.org/zap"
)

type EmailService struct {
	sender  emailProvider.Sender
	config  config.EmailConfig
	enabled bool
}

func newEmailsService(sender emailProvider.Sender, config config.EmailConfig) *EmailService {
	return &EmailService{
		enabled: config.Enabled,
		sender:  sender,
		config:  config,
	}
}

type VerificationEmailInput struct {
	Email            string
	VerificationCode string
}

func (s *EmailService) SendUserVerificationEmail(ctx context.Context, input VerificationEmailInput) error {
	if !s.enabled {
		logger.Debug("email disabled, verification email skipped", zap.String("email", input.Email))
		return nil
	}

	templateInput := templates.VerificationData{VerificationCode: input.VerificationCode}
	sendInput := emailProvider.SendEmailInput{Subject: templates.VerificationSubject, To: input.Email}

	if err := sendInput.GenerateBodyFromHTML(templates.FS, s.config.Templates.Verification, templateInput); err != nil {
		return fmt.Errorf("generate email failed: %w", err)
	}

	return s.sender.Send(ctx, sendInput)
}
