package repository

import (
	"context"
	"time"

	"github.com/yemektaxi/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Users              Users
	Roles              Roles
	Restaurants        Restaurants
	EmailVerifications EmailVerifications
	OtpVerifications   OtpVerifications
	Transactor         Transactor
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Users:              newUserRepository(db),
		Roles:              newRoleRepository(db),
		Restaurants:        newRestaurantRepository(db),
		EmailVerifications: newEmailVerificationRepository(db),
		OtpVerifications:   newOtpVerificationRepository(db),
		Transactor:         newTransactor(db),
	}
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type Users interface {
	CreateWithTx(ctx context.Context, tx *sqlx.Tx, user *domain.User) error
	GetOneByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByRefreshToken(ctx context.Context, token string, now time.Time) (*domain.User, error)
	FindConflicts(ctx context.Context, email, phone, identityNumber string) ([]domain.User, error)
	ExistsByIdentityNumber(ctx context.Context, identityNumber string, excludeID uuid.UUID) (bool, error)
	SetSession(ctx context.Context, id uuid.UUID, token string, expiry time.Time, loginAt *time.Time) error
	RotateRefreshToken(ctx context.Context, id uuid.UUID, oldToken, newToken string, expiry time.Time) error
	SetIdentityChecked(ctx context.Context, id uuid.UUID, identityNumber string) error
	SetEmailVerifiedWithTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
	SetPhoneVerifiedWithTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
	AttachRestaurantWithTx(ctx context.Context, tx *sqlx.Tx, id, restaurantID uuid.UUID) error
}

type Roles interface {
	AssignWithTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, roleName string) error
	ListNamesByUser(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type Restaurants interface {
	CreateWithTx(ctx context.Context, tx *sqlx.Tx, restaurant *domain.Restaurant) error
	ExistsByOwner(ctx context.Context, ownerID uuid.UUID) (bool, error)
	FindConflicts(ctx context.Context, name, email, phone string) ([]domain.Restaurant, error)
}

type EmailVerifications interface {
	Create(ctx context.Context, v *domain.EmailVerification) error
	GetActiveByEmail(ctx context.Context, email string, now time.Time) (*domain.EmailVerification, error)
	SoftDeleteExpired(ctx context.Context, email string, now time.Time) error
	SoftDeleteWithTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
}

type OtpVerifications interface {
	GetByUserAndPhone(ctx context.Context, userID uuid.UUID, phone string) (*domain.OtpVerification, error)
	Create(ctx context.Context, v *domain.OtpVerification) error
	Renew(ctx context.Context, id uuid.UUID, code string, generatedAt time.Time) error
	GetLatestPending(ctx context.Context, userID uuid.UUID, since time.Time) (*domain.OtpVerification, error)
	MarkVerifiedWithTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
}
