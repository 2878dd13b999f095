package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yemektaxi/backend/internal/domain"
	"github.com/yemektaxi/backend/internal/identity"
	"github.com/yemektaxi/backend/internal/repository"

	"github.com/google/uuid"
)

type identityService struct {
	userRepository repository.Users
	verifier       identity.Verifier
}

func newIdentityService(userRepository repository.Users, verifier identity.Verifier) *identityService {
	return &identityService{
		userRepository: userRepository,
		verifier:       verifier,
	}
}

type CheckIdentityInput struct {
	IdentityNumber string
	FirstName      string
	LastName       string
	YearOfBirth    int
}

// Check validates the identity number and confirms it against the registry.
// Names and birth year default to the registered ones. Nothing is written unless
// the registry confirms the identity.
func (s *identityService) Check(ctx context.Context, userID uuid.UUID, input CheckIdentityInput) (*identity.Result, error) {
	input.IdentityNumber = strings.TrimSpace(input.IdentityNumber)
	if !identity.ValidateFormat(input.IdentityNumber) {
		return nil, ErrInvalidIdentityNumber
	}

	user, err := s.userRepository.GetOneByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id failed: %w", err)
	}

	if user.IdentityNumber.Valid && user.IdentityNumber.String != "" && user.IdentityNumber.String != input.IdentityNumber {
		return nil, ErrIdentityNumberMismatch
	}

	taken, err := s.userRepository.ExistsByIdentityNumber(ctx, input.IdentityNumber, user.ID)
	if err != nil {
		return nil, fmt.Errorf("check identity number uniqueness failed: %w", err)
	}
	if taken {
		return nil, ErrIdentityNumberAlreadyExists
	}

	req := identity.CheckRequest{
		IdentityNumber: input.IdentityNumber,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		YearOfBirth:    input.YearOfBirth,
	}
	if strings.TrimSpace(req.FirstName) == "" {
		req.FirstName = user.FirstName
	}
	if strings.TrimSpace(req.LastName) == "" {
		req.LastName = user.LastName
	}
	if req.YearOfBirth == 0 {
		req.YearOfBirth = user.YearOfBirth
	}

	result, err := s.verifier.Verify(ctx, req)
	if err != nil {
		return nil, &UpstreamError{Provider: "identity", Err: err}
	}
	if !result.Verified {
		return nil, ErrIdentityNotVerified
	}

	if err := s.userRepository.SetIdentityChecked(ctx, user.ID, input.IdentityNumber); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil, ErrIdentityNumberAlreadyExists
		}
		return nil, fmt.Errorf("update user identity failed: %w", err)
	}

	return result, nil
}
