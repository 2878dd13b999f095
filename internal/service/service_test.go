package service

import (
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/yemektaxi/backend/internal/identity"
	mock_email "github.com/yemektaxi/backend/pkg/email/mock"
	mock_sms "github.com/yemektaxi/backend/pkg/sms/mock"
)

type testEnv struct {
	services  *Services
	store     *memStore
	clock     *fakeClock
	notifier  *fakeNotifier
	verifier  *fakeVerifier
	email     *mock_email.EmailSender
	sms       *mock_sms.SMSSender
	emailCode *fixedGenerator
	smsCode   *fixedGenerator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := testConfig()
	env := &testEnv{
		store:     newMemStore(),
		clock:     newFakeClock(),
		notifier:  &fakeNotifier{},
		verifier:  &fakeVerifier{result: &identity.Result{Verified: true, Message: identity.MessageVerified}},
		email:     &mock_email.EmailSender{},
		sms:       &mock_sms.SMSSender{},
		emailCode: &fixedGenerator{codes: []string{"482913"}},
		smsCode:   &fixedGenerator{codes: []string{"111111", "222222", "333333"}},
	}

	env.services = NewServices(Deps{
		Config:           cfg,
		Clock:            env.clock,
		Hasher:           newHasher(),
		TokenManager:     newTokenManager(t, cfg),
		CodeGenerator:    env.emailCode,
		OtpGenerator:     env.smsCode,
		Repos:            env.store.repositories(),
		IdentityVerifier: env.verifier,
		EmailSender:      env.email,
		SMSSender:        env.sms,
		Notifier:         env.notifier,
	})

	return env
}

func (e *testEnv) smsOK() {
	e.sms.On("Send", mock.Anything, mock.Anything).Return(nil)
}

func (e *testEnv) emailOK() {
	e.email.On("Send", mock.Anything, mock.Anything).Return(nil)
}
