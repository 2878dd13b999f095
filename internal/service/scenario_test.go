package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yemektaxi/backend/internal/domain"
)

func TestOnboardingFlow(t *testing.T) {
	env := newTestEnv(t)
	env.smsOK()
	env.emailOK()
	ctx := context.Background()

	res, err := env.services.Auth.Signup(ctx, validSignup())
	require.NoError(t, err)
	userID := res.User.ID

	dup := validSignup()
	dup.PhoneNumber = "+905553330003"
	_, err = env.services.Auth.Signup(ctx, dup)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	_, err = env.services.Otps.Send(ctx, userID, "")
	require.NoError(t, err)

	env.clock.Advance(10 * time.Second)
	_, err = env.services.Otps.Send(ctx, userID, "")
	var cooldown *CooldownError
	require.True(t, errors.As(err, &cooldown))
	assert.Equal(t, 170, cooldown.RemainingTime)

	env.clock.Advance(171 * time.Second)
	_, err = env.services.Otps.Send(ctx, userID, "")
	require.NoError(t, err)
	require.NoError(t, env.services.Otps.Verify(ctx, userID, "222222"))
	assert.True(t, env.store.user(userID).PhoneVerification)

	_, err = env.services.Restaurants.Create(ctx, userID, restaurantInput())
	var required *VerificationRequiredError
	require.True(t, errors.As(err, &required))
	assert.Equal(t, domain.RequirementEmail, required.Requirement)

	require.NoError(t, env.services.EmailVerifications.Send(ctx, userID))
	require.NoError(t, env.services.EmailVerifications.Verify(ctx, userID, "482913"))

	r, err := env.services.Restaurants.Create(ctx, userID, restaurantInput())
	require.NoError(t, err)

	profile, err := env.services.Auth.Me(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, profile.User.RestaurantID)
	assert.Equal(t, r.ID, *profile.User.RestaurantID)
	assert.Equal(t, []string{domain.RoleRestaurantOwner, domain.RoleUser}, profile.Roles)
}
