package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yemektaxi/backend/internal/domain"
	"github.com/yemektaxi/backend/internal/identity"
	"github.com/yemektaxi/backend/internal/repository"
	"github.com/yemektaxi/backend/pkg/auth"
	emailProvider "github.com/yemektaxi/backend/pkg/email"
	"github.com/yemektaxi/backend/pkg/hash"
	"github.com/yemektaxi/backend/pkg/logger"
	"github.com/yemektaxi/backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const minPasswordLength = 6

type authService struct {
	userRepository repository.Users
	roleRepository repository.Roles
	transactor     repository.Transactor
	hasher         hash.PasswordHasher
	tokenManager   auth.TokenManager
	notifier       SignupNotifier
	clock          Clock
}

func newAuthService(userRepository repository.Users,
	roleRepository repository.Roles,
	transactor repository.Transactor,
	hasher hash.PasswordHasher,
	tokenManager auth.TokenManager,
	notifier SignupNotifier,
	clock Clock,
) *authService {
	return &authService{
		userRepository: userRepository,
		roleRepository: roleRepository,
		transactor:     transactor,
		hasher:         hasher,
		tokenManager:   tokenManager,
		notifier:       notifier,
		clock:          clock,
	}
}

type SignupInput struct {
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	Password       string
	IdentityNumber string
	YearOfBirth    int
}

type AuthResult struct {
	Tokens *auth.TokenPair
	User   *domain.User
	Roles  []string
}

type Profile struct {
	User  *domain.User
	Roles []string
}

func (in *SignupInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.IdentityNumber = strings.TrimSpace(in.IdentityNumber)
}

func (s *authService) validateSignup(in SignupInput) error {
	switch {
	case utf8.RuneCountInString(in.FirstName) < 2:
		return &ValidationError{Field: "firstName", Message: "must be at least 2 characters"}
	case utf8.RuneCountInString(in.LastName) < 2:
		return &ValidationError{Field: "lastName", Message: "must be at least 2 characters"}
	case !emailProvider.IsEmailValid(in.Email):
		return &ValidationError{Field: "email", Message: "invalid email"}
	case !validator.IsPhoneNumber(in.PhoneNumber):
		return &ValidationError{Field: "phoneNumber", Message: "invalid phone number"}
	case utf8.RuneCountInString(in.Password) < minPasswordLength:
		return &ValidationError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	case !validator.IsBirthYearAllowed(in.YearOfBirth, s.clock.Now()):
		return &ValidationError{Field: "yearOfBirth", Message: fmt.Sprintf("age must be between %d and %d", validator.MinAge, validator.MaxAge)}
	case in.IdentityNumber != "" && !identity.ValidateFormat(in.IdentityNumber):
		return ErrInvalidIdentityNumber
	}

	return nil
}

// firstUserConflict reports the first clashing field in the order email, phone, identity.
func firstUserConflict(users []domain.User, in SignupInput) error {
	var phone, identityNumber bool
	for _, u := range users {
		if strings.EqualFold(u.Email, in.Email) {
			return ErrEmailAlreadyExists
		}
		if u.PhoneNumber == in.PhoneNumber {
			phone = true
		}
		if in.IdentityNumber != "" && u.IdentityNumber.Valid && u.IdentityNumber.String == in.IdentityNumber {
			identityNumber = true
		}
	}

	switch {
	case phone:
		return ErrPhoneAlreadyExists
	case identityNumber:
		return ErrIdentityNumberAlreadyExists
	}

	return nil
}

func userDuplicateToConflict(err error) error {
	var dupErr *domain.DuplicateEntryError
	if !errors.As(err, &dupErr) {
		return err
	}

	switch {
	case strings.Contains(dupErr.Key, "email"):
		return ErrEmailAlreadyExists
	case strings.Contains(dupErr.Key, "phone"):
		return ErrPhoneAlreadyExists
	case strings.Contains(dupErr.Key, "identity"):
		return ErrIdentityNumberAlreadyExists
	}

	return err
}

func (s *authService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	input.normalize()
	if err := s.validateSignup(input); err != nil {
		return nil, err
	}

	conflicts, err := s.userRepository.FindConflicts(ctx, input.Email, input.PhoneNumber, input.IdentityNumber)
	if err != nil {
		return nil, fmt.Errorf("find user conflicts failed: %w", err)
	}
	if err := firstUserConflict(conflicts, input); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	userID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate user id failed: %w", err)
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:          userID,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		IdentityNumber: sql.NullString{
			String: input.IdentityNumber,
			Valid:  input.IdentityNumber != "",
		},
		YearOfBirth:        input.YearOfBirth,
		Password:           passwordHash,
		ConfirmationStatus: domain.ConfirmationPending,
		Status:             domain.UserActive,
		IsNewUser:          true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err = s.transactor.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.userRepository.CreateWithTx(ctx, tx, user); err != nil {
			return err
		}
		return s.roleRepository.AssignWithTx(ctx, tx, user.ID, domain.RoleUser)
	})
	if err != nil {
		if conflict := userDuplicateToConflict(err); conflict != err {
			return nil, conflict
		}
		return nil, fmt.Errorf("create user failed: %w", err)
	}

	tokens, err := s.issueSession(ctx, user, nil)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.EnqueueSignupEmail(ctx, user.Email, user.FirstName); err != nil {
		logger.Error("enqueue signup email failed", zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	return &AuthResult{Tokens: tokens, User: user, Roles: []string{domain.RoleUser}}, nil
}

func (s *authService) issueSession(ctx context.Context, user *domain.User, loginAt *time.Time) (*auth.TokenPair, error) {
	tokens, err := s.tokenManager.NewPair(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate token pair failed: %w", err)
	}

	if err := s.userRepository.SetSession(ctx, user.ID, tokens.RefreshToken, tokens.RefreshExpiresAt, loginAt); err != nil {
		return nil, fmt.Errorf("store refresh token failed: %w", err)
	}

	user.RefreshToken = sql.NullString{String: tokens.RefreshToken, Valid: true}
	user.RefreshTokenExpiry = &tokens.RefreshExpiresAt
	if loginAt != nil {
		user.LastLoginDate = loginAt
	}

	return tokens, nil
}

func (s *authService) Login(ctx context.Context, email string, password string) (*AuthResult, error) {
	user, err := s.userRepository.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by email failed: %w", err)
	}

	ok, err := s.hasher.Compare(user.Password, password)
	if err != nil {
		return nil, fmt.Errorf("compare password failed: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if !user.IsApproved() || user.Status != domain.UserActive {
		logger.Info("login rejected for inactive account",
			zap.String("user_id", user.ID.String()),
			zap.String("confirmation_status", string(user.ConfirmationStatus)),
			zap.String("status", string(user.Status)),
		)
		return nil, ErrInvalidCredentials
	}

	if requirement, pending := user.PendingRequirement(); pending {
		logger.Warn("approved user is not fully verified",
			zap.String("user_id", user.ID.String()),
			zap.String("requirement", string(requirement)),
		)
	}

	now := s.clock.Now()
	tokens, err := s.issueSession(ctx, user, &now)
	if err != nil {
		return nil, err
	}

	roles, err := s.roleRepository.ListNamesByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list user roles failed: %w", err)
	}

	return &AuthResult{Tokens: tokens, User: user, Roles: roles}, nil
}

// Refresh rotates the token pair. Every failure is reported as ErrInvalidOrExpiredToken.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidOrExpiredToken
	}

	user, err := s.userRepository.GetByRefreshToken(ctx, refreshToken, s.clock.Now())
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Error("get user by refresh token failed", zap.Error(err))
		}
		return nil, ErrInvalidOrExpiredToken
	}

	if user.ID.String() != claims.UserID {
		logger.Warn("refresh token subject mismatch", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidOrExpiredToken
	}

	tokens, err := s.tokenManager.NewPair(user.ID, user.Email)
	if err != nil {
		logger.Error("generate token pair failed", zap.Error(err))
		return nil, ErrInvalidOrExpiredToken
	}

	if err := s.userRepository.RotateRefreshToken(ctx, user.ID, refreshToken, tokens.RefreshToken, tokens.RefreshExpiresAt); err != nil {
		if !errors.Is(err, domain.ErrNoRowsAffected) {
			logger.Error("rotate refresh token failed", zap.Error(err))
		}
		return nil, ErrInvalidOrExpiredToken
	}

	user.RefreshToken = sql.NullString{String: tokens.RefreshToken, Valid: true}
	user.RefreshTokenExpiry = &tokens.RefreshExpiresAt

	roles, err := s.roleRepository.ListNamesByUser(ctx, user.ID)
	if err != nil {
		// the pair is already rotated, so hand it out without roles
		logger.Error("list user roles failed", zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	return &AuthResult{Tokens: tokens, User: user, Roles: roles}, nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.userRepository.GetOneByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id failed: %w", err)
	}

	roles, err := s.roleRepository.ListNamesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user roles failed: %w", err)
	}

	return &Profile{User: user, Roles: roles}, nil
}
