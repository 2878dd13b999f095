package domain

import (
	"time"

	"github.com/google/uuid"
)

type EmailVerification struct {
	ID         uuid.UUID `db:"id"`
	Email      string    `db:"email"`
	Code       string    `db:"code"`
	ExpiryDate time.Time `db:"expiry_date"`
	IsDeleted  bool      `db:"is_deleted"`
	CreatedAt  time.Time `db:"created_at"`
}

// IsActive reports whether the code can still be consumed at now.
func (v *EmailVerification) IsActive(now time.Time) bool {
	return !v.IsDeleted && now.Before(v.ExpiryDate)
}
