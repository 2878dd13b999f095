package service

import (
	"errors"
	"fmt"

	"github.com/yemektaxi/backend/internal/domain"
)

var (
	ErrUserNotFound = errors.New("user not found")

	ErrEmailAlreadyExists          = errors.New("email already exists")
	ErrPhoneAlreadyExists          = errors.New("phone number already exists")
	ErrIdentityNumberAlreadyExists = errors.New("identity number already exists")

	ErrRestaurantAlreadyOwned = errors.New("user already owns a restaurant")
	ErrRestaurantNameExists   = errors.New("restaurant name already exists")
	ErrRestaurantEmailExists  = errors.New("restaurant email already exists")
	ErrRestaurantPhoneExists  = errors.New("restaurant phone number already exists")

	ErrEmailAlreadyVerified     = errors.New("email already verified")
	ErrEmailVerificationPending = errors.New("verification code already sent for this email")

	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrInvalidOrExpiredCode  = errors.New("invalid or expired code")

	ErrInvalidIdentityNumber  = errors.New("invalid identity number")
	ErrIdentityNumberMismatch = errors.New("identity number does not match the registered one")
	ErrIdentityNotVerified    = errors.New("identity could not be verified")
)

// CooldownError is returned while a new OTP may not be sent yet.
type CooldownError struct {
	RemainingTime int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("otp cooldown active, retry in %d seconds", e.RemainingTime)
}

// UpstreamError wraps a failure of an outbound provider (email, sms, identity).
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s provider error: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// VerificationRequiredError names the first check the user still has to pass.
type VerificationRequiredError struct {
	Requirement domain.VerificationRequirement
}

func (e *VerificationRequiredError) Error() string {
	return fmt.Sprintf("%s verification required", e.Requirement)
}

// ValidationError reports a business rule violated by a single input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
