package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/yemektaxi/backend/internal/config"
	"github.com/yemektaxi/backend/internal/domain"
	"github.com/yemektaxi/backend/internal/repository"
	"github.com/yemektaxi/backend/pkg/otp"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type emailVerificationService struct {
	userRepository         repository.Users
	verificationRepository repository.EmailVerifications
	transactor             repository.Transactor
	emails                 *EmailService
	codeGenerator          otp.Generator
	authConfig             config.AuthConfig
	clock                  Clock
}

func newEmailVerificationService(userRepository repository.Users,
	verificationRepository repository.EmailVerifications,
	transactor repository.Transactor,
	emails *EmailService,
	codeGenerator otp.Generator,
	authConfig config.AuthConfig,
	clock Clock,
) *emailVerificationService {
	return &emailVerificationService{
		userRepository:         userRepository,
		verificationRepository: verificationRepository,
		transactor:             transactor,
		emails:                 emails,
		codeGenerator:          codeGenerator,
		authConfig:             authConfig,
		clock:                  clock,
	}
}

func (s *emailVerificationService) getUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepository.GetOneByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id failed: %w", err)
	}
	return user, nil
}

// Send mails a new code unless one is still outstanding for the address.
func (s *emailVerificationService) Send(ctx context.Context, userID uuid.UUID) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if user.EmailVerification {
		return ErrEmailAlreadyVerified
	}

	now := s.clock.Now()

	_, err = s.verificationRepository.GetActiveByEmail(ctx, user.Email, now)
	switch {
	case err == nil:
		return ErrEmailVerificationPending
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("get active email verification failed: %w", err)
	}

	code := s.codeGenerator.RandomCode(s.authConfig.VerificationCodeLength)

	if err := s.emails.SendUserVerificationEmail(ctx, VerificationEmailInput{
		Email:            user.Email,
		VerificationCode: code,
	}); err != nil {
		return &UpstreamError{Provider: "email", Err: err}
	}

	if err := s.verificationRepository.SoftDeleteExpired(ctx, user.Email, now); err != nil {
		return fmt.Errorf("supersede email verifications failed: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate email verification id failed: %w", err)
	}

	if err := s.verificationRepository.Create(ctx, &domain.EmailVerification{
		ID:         id,
		Email:      user.Email,
		Code:       code,
		ExpiryDate: now.Add(s.authConfig.EmailVerificationTTL),
		CreatedAt:  now,
	}); err != nil {
		return fmt.Errorf("create email verification failed: %w", err)
	}

	return nil
}

// Verify consumes the outstanding code and marks the email verified.
func (s *emailVerificationService) Verify(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	record, err := s.verificationRepository.GetActiveByEmail(ctx, user.Email, s.clock.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrInvalidOrExpiredCode
		}
		return fmt.Errorf("get active email verification failed: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(strings.TrimSpace(code))) != 1 {
		return ErrInvalidOrExpiredCode
	}

	err = s.transactor.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.verificationRepository.SoftDeleteWithTx(ctx, tx, record.ID); err != nil {
			return err
		}
		return s.userRepository.SetEmailVerifiedWithTx(ctx, tx, user.ID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNoRowsAffected) {
			return ErrInvalidOrExpiredCode
		}
		return fmt.Errorf("confirm email verification failed: %w", err)
	}

	return nil
}
