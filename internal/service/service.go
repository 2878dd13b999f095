package service

import (
	"context"

	"github.com/yemektaxi/backend/internal/config"
	"github.com/yemektaxi/backend/internal/domain"
	"github.com/yemektaxi/backend/internal/identity"
	"github.com/yemektaxi/backend/internal/repository"
	"github.com/yemektaxi/backend/pkg/auth"
	emailProvider "github.com/yemektaxi/backend/pkg/email"
	"github.com/yemektaxi/backend/pkg/hash"
	"github.com/yemektaxi/backend/pkg/otp"
	"github.com/yemektaxi/backend/pkg/sms"

	"github.com/google/uuid"
)

type Services struct {
	Auth               Auth
	Identities         Identities
	Restaurants        Restaurants
	EmailVerifications EmailVerifications
	Otps               Otps
}

type Deps struct {
	Config           *config.Config
	Clock            Clock
	Hasher           hash.PasswordHasher
	TokenManager     auth.TokenManager
	CodeGenerator    otp.Generator
	OtpGenerator     otp.Generator
	Repos            *repository.Repositories
	IdentityVerifier identity.Verifier
	EmailSender      emailProvider.Sender
	SMSSender        sms.Sender
	Notifier         SignupNotifier
}

func NewServices(deps Deps) *Services {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	emails := newEmailsService(deps.EmailSender, deps.Config.Email)

	return &Services{
		Auth: newAuthService(deps.Repos.Users,
			deps.Repos.Roles,
			deps.Repos.Transactor,
			deps.Hasher,
			deps.TokenManager,
			deps.Notifier,
			clock,
		),
		Identities: newIdentityService(deps.Repos.Users, deps.IdentityVerifier),
		Restaurants: newRestaurantService(deps.Repos.Users,
			deps.Repos.Roles,
			deps.Repos.Restaurants,
			deps.Repos.Transactor,
		),
		EmailVerifications: newEmailVerificationService(deps.Repos.Users,
			deps.Repos.EmailVerifications,
			deps.Repos.Transactor,
			emails,
			deps.CodeGenerator,
			deps.Config.Auth,
			clock,
		),
		Otps: newOtpService(deps.Repos.Users,
			deps.Repos.OtpVerifications,
			deps.Repos.Transactor,
			deps.SMSSender,
			deps.OtpGenerator,
			deps.Config.Auth,
			deps.Config.SMS.Enabled,
			clock,
		),
	}
}

// SignupNotifier schedules the "registration received" email.
type SignupNotifier interface {
	EnqueueSignupEmail(ctx context.Context, email string, firstName string) error
}

type Auth interface {
	Signup(ctx context.Context, input SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email string, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Me(ctx context.Context, userID uuid.UUID) (*Profile, error)
}

type Identities interface {
	Check(ctx context.Context, userID uuid.UUID, input CheckIdentityInput) (*identity.Result, error)
}

type Restaurants interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateRestaurantInput) (*domain.Restaurant, error)
}

type EmailVerifications interface {
	Send(ctx context.Context, userID uuid.UUID) error
	Verify(ctx context.Context, userID uuid.UUID, code string) error
}

type Otps interface {
	Send(ctx context.Context, userID uuid.UUID, phone string) (int, error)
	Verify(ctx context.Context, userID uuid.UUID, code string) error
}
