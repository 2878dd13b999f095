package main

import (
	"fmt"

	"github.com/yemektaxi/backend/internal/config"
	emailProvider "github.com/yemektaxi/backend/pkg/email"
	"github.com/yemektaxi/backend/pkg/email/brevo"
	"github.com/yemektaxi/backend/pkg/email/resend"
	"github.com/yemektaxi/backend/pkg/email/smtp"
	"github.com/yemektaxi/backend/pkg/sms"
	"github.com/yemektaxi/backend/pkg/sms/netgsm"
	"github.com/yemektaxi/backend/pkg/sms/twilio"
)

const (
	emailProviderBrevo  = "brevo"
	emailProviderSMTP   = "smtp"
	emailProviderResend = "resend"

	smsProviderNetGSM = "netgsm"
	smsProviderTwilio = "twilio"
)

// newEmailSender returns nil when email is disabled; the senders skip delivery then.
func newEmailSender(cfg config.EmailConfig, smtpCfg config.SMTPConfig) (emailProvider.Sender, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	var (
		sender emailProvider.Sender
		err    error
	)
	switch cfg.Provider {
	case emailProviderBrevo:
		sender, err = brevo.NewSender(cfg.Brevo.URL, cfg.Brevo.APIKey, cfg.SenderName, cfg.SenderAddr)
	case emailProviderSMTP:
		sender, err = smtp.NewSMTPSender(smtpCfg.From, smtpCfg.Pass, smtpCfg.Host, smtpCfg.Port)
	case emailProviderResend:
		sender, err = resend.NewSender(cfg.Resend.APIKey, cfg.SenderName, cfg.SenderAddr)
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return sender, nil
}

func newSMSSender(cfg config.SMSConfig) (sms.Sender, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	var (
		sender sms.Sender
		err    error
	)
	switch cfg.Provider {
	case smsProviderNetGSM:
		sender, err = netgsm.NewSender(cfg.NetGSM.URL, cfg.NetGSM.Username, cfg.NetGSM.Password, cfg.NetGSM.Header)
	case smsProviderTwilio:
		sender, err = twilio.NewSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.From)
	default:
		return nil, fmt.Errorf("unknown sms provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return sender, nil
}
