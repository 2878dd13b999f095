package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yemektaxi/backend/internal/config"
	"github.com/yemektaxi/backend/internal/domain"
	"github.com/yemektaxi/backend/internal/repository"
	"github.com/yemektaxi/backend/pkg/logger"
	"github.com/yemektaxi/backend/pkg/otp"
	"github.com/yemektaxi/backend/pkg/sms"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	otpCodeLength     = 6
	otpMessagePattern = "Kodunuz: %s"
)

type otpService struct {
	userRepository repository.Users
	otpRepository  repository.OtpVerifications
	transactor     repository.Transactor
	smsSender      sms.Sender
	generator      otp.Generator
	authConfig     config.AuthConfig
	smsEnabled     bool
	clock          Clock
}

func newOtpService(userRepository repository.Users,
	otpRepository repository.OtpVerifications,
	transactor repository.Transactor,
	smsSender sms.Sender,
	generator otp.Generator,
	authConfig config.AuthConfig,
	smsEnabled bool,
	clock Clock,
) *otpService {
	return &otpService{
		userRepository: userRepository,
		otpRepository:  otpRepository,
		transactor:     transactor,
		smsSender:      smsSender,
		generator:      generator,
		authConfig:     authConfig,
		smsEnabled:     smsEnabled,
		clock:          clock,
	}
}

// Send texts a new code to phone, or to the registered number when phone is
// empty. It returns the cooldown in seconds before another code may be sent.
func (s *otpService) Send(ctx context.Context, userID uuid.UUID, phone string) (int, error) {
	user, err := s.userRepository.GetOneByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("get user by id failed: %w", err)
	}

	phone = strings.TrimSpace(phone)
	if phone == "" {
		phone = user.PhoneNumber
	}

	existing, err := s.otpRepository.GetByUserAndPhone(ctx, user.ID, phone)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return 0, fmt.Errorf("get otp verification failed: %w", err)
	}

	now := s.clock.Now()
	if remaining := existing.CooldownRemaining(now, s.authConfig.OtpCooldown); remaining > 0 {
		return 0, &CooldownError{RemainingTime: int(remaining / time.Second)}
	}

	code := s.generator.RandomCode(otpCodeLength)

	if err := s.dispatch(ctx, phone, code); err != nil {
		return 0, &UpstreamError{Provider: "sms", Err: err}
	}

	if existing != nil {
		if err := s.otpRepository.Renew(ctx, existing.ID, code, now); err != nil {
			return 0, fmt.Errorf("renew otp verification failed: %w", err)
		}
	} else {
		id, err := uuid.NewV7()
		if err != nil {
			return 0, fmt.Errorf("generate otp verification id failed: %w", err)
		}
		if err := s.otpRepository.Create(ctx, &domain.OtpVerification{
			ID:           id,
			UserID:       user.ID,
			PhoneNumber:  phone,
			OtpCode:      code,
			GenerateDate: now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return 0, fmt.Errorf("create otp verification failed: %w", err)
		}
	}

	return int(s.authConfig.OtpCooldown / time.Second), nil
}

func (s *otpService) dispatch(ctx context.Context, phone, code string) error {
	if !s.smsEnabled {
		logger.Debug("sms disabled, otp not dispatched", zap.String("phone", phone))
		return nil
	}

	return s.smsSender.Send(ctx, sms.SendSMSInput{
		To:      []string{phone},
		Message: fmt.Sprintf(otpMessagePattern, code),
	})
}

// Verify accepts the newest unverified code generated within the validity window.
// Missing, expired and mismatching codes are indistinguishable to the caller.
func (s *otpService) Verify(ctx context.Context, userID uuid.UUID, code string) error {
	now := s.clock.Now()

	record, err := s.otpRepository.GetLatestPending(ctx, userID, now.Add(-s.authConfig.OtpTTL))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrInvalidOrExpiredCode
		}
		return fmt.Errorf("get pending otp verification failed: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(record.OtpCode), []byte(strings.TrimSpace(code))) != 1 {
		return ErrInvalidOrExpiredCode
	}

	err = s.transactor.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.otpRepository.MarkVerifiedWithTx(ctx, tx, record.ID); err != nil {
			return err
		}
		return s.userRepository.SetPhoneVerifiedWithTx(ctx, tx, userID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNoRowsAffected) {
			return ErrInvalidOrExpiredCode
		}
		return fmt.Errorf("confirm otp verification failed: %w", err)
	}

	return nil
}
