package validator

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Phone       string `json:"phoneNumber" validate:"required,phonenumber"`
	Identity    string `json:"identityNumber" validate:"omitempty,tckn"`
	YearOfBirth int    `json:"yearOfBirth" validate:"required,birthyear"`
}

func TestIsPhoneNumber(t *testing.T) {
	for _, p := range []string{"+905551234567", "905551234567", "+95551234567", "95551234567"} {
		assert.True(t, IsPhoneNumber(p), p)
	}
	for _, p := range []string{"", "5551234567", "+9055512345678", "+90555-123-4567", "abc"} {
		assert.False(t, IsPhoneNumber(p), p)
	}
}

func TestIsBirthYearAllowed(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsBirthYearAllowed(2012, now))
	assert.True(t, IsBirthYearAllowed(1905, now))
	assert.False(t, IsBirthYearAllowed(2013, now))
	assert.False(t, IsBirthYearAllowed(1904, now))
}

func TestRegister(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	ok := signupForm{Phone: "+905551234567", Identity: "10000000146", YearOfBirth: time.Now().Year() - 30}
	assert.NoError(t, v.Struct(ok))

	bad := signupForm{Phone: "123", Identity: "10000000147", YearOfBirth: time.Now().Year() - 5}
	err := v.Struct(bad)
	require.Error(t, err)

	fields := map[string]string{}
	for _, fe := range err.(validator.ValidationErrors) {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{
		"phoneNumber":    "phonenumber",
		"identityNumber": "tckn",
		"yearOfBirth":    "birthyear",
	}, fields)
}
