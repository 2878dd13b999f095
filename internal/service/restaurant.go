package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yemektaxi/backend/internal/domain"
	"github.com/yemektaxi/backend/internal/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type restaurantService struct {
	userRepository       repository.Users
	roleRepository       repository.Roles
	restaurantRepository repository.Restaurants
	transactor           repository.Transactor
}

func newRestaurantService(userRepository repository.Users,
	roleRepository repository.Roles,
	restaurantRepository repository.Restaurants,
	transactor repository.Transactor,
) *restaurantService {
	return &restaurantService{
		userRepository:       userRepository,
		roleRepository:       roleRepository,
		restaurantRepository: restaurantRepository,
		transactor:           transactor,
	}
}

type CreateRestaurantInput struct {
	Name        string
	Email       string
	PhoneNumber string
	Address     string
	Description string
}

func firstRestaurantConflict(restaurants []domain.Restaurant, in CreateRestaurantInput) error {
	var email, phone bool
	for _, r := range restaurants {
		if strings.EqualFold(r.Name, in.Name) {
			return ErrRestaurantNameExists
		}
		if strings.EqualFold(r.Email, in.Email) {
			email = true
		}
		if r.PhoneNumber == in.PhoneNumber {
			phone = true
		}
	}

	switch {
	case email:
		return ErrRestaurantEmailExists
	case phone:
		return ErrRestaurantPhoneExists
	}

	return nil
}

func restaurantDuplicateToConflict(err error) error {
	var dupErr *domain.DuplicateEntryError
	if !errors.As(err, &dupErr) {
		return err
	}

	switch {
	case strings.Contains(dupErr.Key, "owner"):
		return ErrRestaurantAlreadyOwned
	case strings.Contains(dupErr.Key, "name"):
		return ErrRestaurantNameExists
	case strings.Contains(dupErr.Key, "email"):
		return ErrRestaurantEmailExists
	case strings.Contains(dupErr.Key, "phone"):
		return ErrRestaurantPhoneExists
	}

	return err
}

// Create registers the owner's restaurant. The restaurant row, the owner link
// and the RestaurantOwner role are written in one transaction.
func (s *restaurantService) Create(ctx context.Context, ownerID uuid.UUID, input CreateRestaurantInput) (*domain.Restaurant, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)

	owner, err := s.userRepository.GetOneByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id failed: %w", err)
	}

	if owner.RestaurantID != nil {
		return nil, ErrRestaurantAlreadyOwned
	}

	if requirement, pending := owner.PendingRequirement(); pending {
		return nil, &VerificationRequiredError{Requirement: requirement}
	}

	owns, err := s.restaurantRepository.ExistsByOwner(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("check restaurant owner failed: %w", err)
	}
	if owns {
		return nil, ErrRestaurantAlreadyOwned
	}

	conflicts, err := s.restaurantRepository.FindConflicts(ctx, input.Name, input.Email, input.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("find restaurant conflicts failed: %w", err)
	}
	if err := firstRestaurantConflict(conflicts, input); err != nil {
		return nil, err
	}

	restaurantID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate restaurant id failed: %w", err)
	}

	restaurant := &domain.Restaurant{
		ID:                 restaurantID,
		OwnerID:            owner.ID,
		Name:               input.Name,
		Email:              input.Email,
		PhoneNumber:        input.PhoneNumber,
		Address:            strings.TrimSpace(input.Address),
		Description:        strings.TrimSpace(input.Description),
		ConfirmationStatus: domain.ConfirmationPending,
	}

	err = s.transactor.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.restaurantRepository.CreateWithTx(ctx, tx, restaurant); err != nil {
			return err
		}
		if err := s.userRepository.AttachRestaurantWithTx(ctx, tx, owner.ID, restaurant.ID); err != nil {
			if errors.Is(err, domain.ErrNoRowsAffected) {
				return ErrRestaurantAlreadyOwned
			}
			return err
		}
		return s.roleRepository.AssignWithTx(ctx, tx, owner.ID, domain.RoleRestaurantOwner)
	})
	if err != nil {
		if errors.Is(err, ErrRestaurantAlreadyOwned) {
			return nil, ErrRestaurantAlreadyOwned
		}
		if conflict := restaurantDuplicateToConflict(err); conflict != err {
			return nil, conflict
		}
		return nil, fmt.Errorf("create restaurant failed: %w", err)
	}

	return restaurant, nil
}
