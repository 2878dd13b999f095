package mock_service

import (
	"context"

	"github.com/yemektaxi/backend/internal/domain"
	"github.com/yemektaxi/backend/internal/identity"
	"github.com/yemektaxi/backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type Auth struct {
	mock.Mock
}

func (m *Auth) Signup(ctx context.Context, input service.SignupInput) (*service.AuthResult, error) {
	args := m.Called(ctx, input)
	res, _ := args.Get(0).(*service.AuthResult)

	return res, args.Error(1)
}

func (m *Auth) Login(ctx context.Context, email string, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*service.AuthResult)

	return res, args.Error(1)
}

func (m *Auth) Refresh(ctx context.Context, refreshToken string) (*service.AuthResult, error) {
	args := m.Called(ctx, refreshToken)
	res, _ := args.Get(0).(*service.AuthResult)

	return res, args.Error(1)
}

func (m *Auth) Me(ctx context.Context, userID uuid.UUID) (*service.Profile, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).(*service.Profile)

	return res, args.Error(1)
}

type Identities struct {
	mock.Mock
}

func (m *Identities) Check(ctx context.Context, userID uuid.UUID, input service.CheckIdentityInput) (*identity.Result, error) {
	args := m.Called(ctx, userID, input)
	res, _ := args.Get(0).(*identity.Result)

	return res, args.Error(1)
}

type Restaurants struct {
	mock.Mock
}

func (m *Restaurants) Create(ctx context.Context, ownerID uuid.UUID, input service.CreateRestaurantInput) (*domain.Restaurant, error) {
	args := m.Called(ctx, ownerID, input)
	res, _ := args.Get(0).(*domain.Restaurant)

	return res, args.Error(1)
}

type EmailVerifications struct {
	mock.Mock
}

func (m *EmailVerifications) Send(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}

func (m *EmailVerifications) Verify(ctx context.Context, userID uuid.UUID, code string) error {
	args := m.Called(ctx, userID, code)

	return args.Error(0)
}

type Otps struct {
	mock.Mock
}

func (m *Otps) Send(ctx context.Context, userID uuid.UUID, phone string) (int, error) {
	args := m.Called(ctx, userID, phone)

	return args.Int(0), args.Error(1)
}

func (m *Otps) Verify(ctx context.Context, userID uuid.UUID, code string) error {
	args := m.Called(ctx, userID, code)

	return args.Error(0)
}
