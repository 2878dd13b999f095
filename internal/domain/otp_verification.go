package domain

import (
	"time"

	"github.com/google/uuid"
)

type OtpState string

const (
	OtpNoCode     OtpState = "NoCode"
	OtpCodeActive OtpState = "CodeActive"
	OtpVerified   OtpState = "Verified"
	OtpExpired    OtpState = "Expired"
)

type OtpVerification struct {
	ID           uuid.UUID `db:"id"`
	UserID       uuid.UUID `db:"user_id"`
	PhoneNumber  string    `db:"phone_number"`
	OtpCode      string    `db:"otp_code"`
	GenerateDate time.Time `db:"generate_date"`
	Verification bool      `db:"verification"`
	IsDeleted    bool      `db:"is_deleted"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// OtpStateOf derives the lifecycle state of rec at now. A nil or deleted
// record has no code.
func OtpStateOf(rec *OtpVerification, now time.Time, ttl time.Duration) OtpState {
	switch {
	case rec == nil || rec.IsDeleted:
		return OtpNoCode
	case rec.Verification:
		return OtpVerified
	case now.Before(rec.GenerateDate.Add(ttl)) || now.Equal(rec.GenerateDate.Add(ttl)):
		return OtpCodeActive
	}

	return OtpExpired
}

// CooldownRemaining returns how long a new code is still blocked, floored to
// whole seconds. Zero means a new code may be sent.
func (o *OtpVerification) CooldownRemaining(now time.Time, cooldown time.Duration) time.Duration {
	if o == nil || o.IsDeleted {
		return 0
	}

	end := o.GenerateDate.Add(cooldown)
	if !now.Before(end) {
		return 0
	}

	return end.Sub(now).Truncate(time.Second)
}
