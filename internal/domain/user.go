package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type ConfirmationStatus string

const (
	ConfirmationPending  ConfirmationStatus = "Pending"
	ConfirmationApproved ConfirmationStatus = "Approved"
	ConfirmationRejected ConfirmationStatus = "Rejected"
)

type UserStatus string

const (
	UserActive  UserStatus = "Active"
	UserPassive UserStatus = "Passive"
)

// VerificationRequirement names a check a user has to pass before owning a restaurant.
type VerificationRequirement string

const (
	RequirementEmail    VerificationRequirement = "email"
	RequirementPhone    VerificationRequirement = "phone"
	RequirementIdentity VerificationRequirement = "identity"
)

type User struct {
	ID                 uuid.UUID          `db:"id"`
	FirstName          string             `db:"first_name"`
	LastName           string             `db:"last_name"`
	Email              string             `db:"email"`
	PhoneNumber        string             `db:"phone_number"`
	IdentityNumber     sql.NullString     `db:"identity_number"`
	YearOfBirth        int                `db:"year_of_birth"`
	Password           string             `db:"password"`
	EmailVerification  bool               `db:"email_verification"`
	PhoneVerification  bool               `db:"phone_verification"`
	IdentityChecked    bool               `db:"identity_checked"`
	ConfirmationStatus ConfirmationStatus `db:"confirmation_status"`
	Status             UserStatus         `db:"status"`
	IsNewUser          bool               `db:"is_new_user"`
	RestaurantID       *uuid.UUID         `db:"restaurant_id"`
	RefreshToken       sql.NullString     `db:"refresh_token"`
	RefreshTokenExpiry *time.Time         `db:"refresh_token_expiry"`
	LastLoginDate      *time.Time         `db:"last_login_date"`
	IsDeleted          bool               `db:"is_deleted"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PendingRequirement returns the first unmet verification in the order
// email, phone, identity. The identity check only applies when the user
// supplied an identity number.
func (u *User) PendingRequirement() (VerificationRequirement, bool) {
	switch {
	case !u.EmailVerification:
		return RequirementEmail, true
	case !u.PhoneVerification:
		return RequirementPhone, true
	case u.IdentityNumber.Valid && u.IdentityNumber.String != "" && !u.IdentityChecked:
		return RequirementIdentity, true
	}

	return "", false
}

func (u *User) IsFullyVerified() bool {
	_, pending := u.PendingRequirement()
	return !pending
}

func (u *User) IsApproved() bool {
	return u.ConfirmationStatus == ConfirmationApproved
}
