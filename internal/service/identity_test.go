package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yemektaxi/backend/internal/domain"
	"github.com/yemektaxi/backend/internal/identity"
)

const validTCKN = "10000000146"

func TestIdentities_Check(t *testing.T) {
	env := newTestEnv(t)
	u := seedUser(t, env.store, nil)

	res, err := env.services.Identities.Check(context.Background(), u.ID, CheckIdentityInput{IdentityNumber: validTCKN})
	require.NoError(t, err)
	assert.True(t, res.Verified)

	require.Len(t, env.verifier.calls, 1)
	assert.Equal(t, identity.CheckRequest{
		IdentityNumber: validTCKN,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		YearOfBirth:    u.YearOfBirth,
	}, env.verifier.calls[0])

	stored := env.store.user(u.ID)
	assert.True(t, stored.IdentityChecked)
	assert.Equal(t, validTCKN, stored.IdentityNumber.String)
}

func TestIdentities_CheckRejections(t *testing.T) {
	tests := []struct {
		name     string
		number   string
		seed     func(u *domain.User)
		other    bool
		rejected bool
		want     error
	}{
		{name: "bad format", number: "12345678901", want: ErrInvalidIdentityNumber},
		{name: "mismatch", number: validTCKN, seed: func(u *domain.User) {
			u.IdentityNumber.String, u.IdentityNumber.Valid = "12345678950", true
		}, want: ErrIdentityNumberMismatch},
		{name: "taken by another user", number: validTCKN, other: true, want: ErrIdentityNumberAlreadyExists},
		{name: "registry says no", number: validTCKN, rejected: true, want: ErrIdentityNotVerified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			u := seedUser(t, env.store, tt.seed)
			if tt.other {
				seedUser(t, env.store, func(o *domain.User) {
					o.Email, o.PhoneNumber = "other@example.com", "+905559990009"
					o.IdentityNumber.String, o.IdentityNumber.Valid = validTCKN, true
				})
			}
			if tt.rejected {
				env.verifier.result = &identity.Result{Verified: false, Message: identity.MessageRejected}
			}

			_, err := env.services.Identities.Check(context.Background(), u.ID, CheckIdentityInput{IdentityNumber: tt.number})
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, env.store.user(u.ID).IdentityChecked)
		})
	}
}

func TestIdentities_CheckUpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.verifier.err = identity.ErrTimeout
	u := seedUser(t, env.store, nil)

	_, err := env.services.Identities.Check(context.Background(), u.ID, CheckIdentityInput{IdentityNumber: validTCKN})

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.ErrorIs(t, err, identity.ErrTimeout)
	assert.False(t, env.store.user(u.ID).IdentityChecked)
	assert.False(t, env.store.user(u.ID).IdentityNumber.Valid)
}
