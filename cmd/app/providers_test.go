package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yemektaxi/backend/internal/config"
	"github.com/yemektaxi/backend/pkg/email/brevo"
	"github.com/yemektaxi/backend/pkg/email/resend"
	"github.com/yemektaxi/backend/pkg/sms/netgsm"
	"github.com/yemektaxi/backend/pkg/sms/twilio"
)

func TestNewEmailSender(t *testing.T) {
	cfg := config.EmailConfig{Enabled: true, Provider: emailProviderBrevo, SenderName: "YemekTaxi", SenderAddr: "info@yemektaxi.com"}
	cfg.Brevo.APIKey = "key"
	cfg.Brevo.URL = "https://api.brevo.com/v3/smtp/email"

	sender, err := newEmailSender(cfg, config.SMTPConfig{})
	require.NoError(t, err)
	assert.IsType(t, &brevo.Sender{}, sender)

	cfg.Provider = emailProviderResend
	cfg.Resend.APIKey = "re_key"
	sender, err = newEmailSender(cfg, config.SMTPConfig{})
	require.NoError(t, err)
	assert.IsType(t, &resend.Sender{}, sender)

	cfg.Provider = "pigeon"
	_, err = newEmailSender(cfg, config.SMTPConfig{})
	assert.Error(t, err)

	cfg.Provider = emailProviderBrevo
	cfg.Brevo.APIKey = ""
	sender, err = newEmailSender(cfg, config.SMTPConfig{})
	assert.Error(t, err)
	assert.Nil(t, sender)
}

func TestNewEmailSender_Disabled(t *testing.T) {
	sender, err := newEmailSender(config.EmailConfig{Provider: "pigeon"}, config.SMTPConfig{})
	require.NoError(t, err)
	assert.Nil(t, sender)
}

func TestNewSMSSender(t *testing.T) {
	cfg := config.SMSConfig{Enabled: true, Provider: smsProviderNetGSM}
	cfg.NetGSM.URL = "https://api.netgsm.com.tr/sms/rest/v2/send"
	cfg.NetGSM.Username = "user"
	cfg.NetGSM.Password = "pass"
	cfg.NetGSM.Header = "yemektaxi"

	sender, err := newSMSSender(cfg)
	require.NoError(t, err)
	assert.IsType(t, &netgsm.Sender{}, sender)

	cfg.Provider = smsProviderTwilio
	cfg.Twilio.AccountSID = "AC123"
	cfg.Twilio.AuthToken = "token"
	cfg.Twilio.From = "+15005550006"
	sender, err = newSMSSender(cfg)
	require.NoError(t, err)
	assert.IsType(t, &twilio.Sender{}, sender)

	cfg.Twilio.AuthToken = ""
	sender, err = newSMSSender(cfg)
	assert.Error(t, err)
	assert.Nil(t, sender)
}
