package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yemektaxi/backend/internal/domain"
)

func validSignup() SignupInput {
	return SignupInput{
		FirstName:   "Mehmet",
		LastName:    "Demir",
		Email:       " Mehmet@Example.com ",
		PhoneNumber: "+905552220002",
		Password:    "secret123",
		YearOfBirth: 1988,
	}
}

func TestAuth_Signup(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.services.Auth.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	assert.Equal(t, "mehmet@example.com", res.User.Email)
	assert.Equal(t, []string{domain.RoleUser}, res.Roles)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	assert.NotEmpty(t, res.Tokens.RefreshToken)

	stored := env.store.user(res.User.ID)
	assert.Equal(t, domain.ConfirmationPending, stored.ConfirmationStatus)
	assert.True(t, stored.IsNewUser)
	assert.False(t, stored.IdentityNumber.Valid)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.Equal(t, res.Tokens.RefreshToken, stored.RefreshToken.String)
	assert.Equal(t, []string{"mehmet@example.com"}, env.notifier.sent)
}

func TestAuth_SignupQueueFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t)
	env.notifier.fails = true

	_, err := env.services.Auth.Signup(context.Background(), validSignup())
	assert.NoError(t, err)
}

func TestAuth_SignupConflictPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		seed  []func(u *domain.User)
		input func(in *SignupInput)
		want  error
	}{
		{
			name: "email wins over phone and identity",
			seed: []func(u *domain.User){
				func(u *domain.User) {
					u.Email, u.PhoneNumber = "other@example.com", "+905552220002"
					u.IdentityNumber.String, u.IdentityNumber.Valid = "10000000146", true
				},
				func(u *domain.User) { u.Email, u.PhoneNumber = "mehmet@example.com", "+905559990009" },
			},
			input: func(in *SignupInput) { in.IdentityNumber = "10000000146" },
			want:  ErrEmailAlreadyExists,
		},
		{
			name: "phone wins over identity",
			seed: []func(u *domain.User){
				func(u *domain.User) {
					u.Email, u.PhoneNumber = "a@example.com", "+905559990009"
					u.IdentityNumber.String, u.IdentityNumber.Valid = "10000000146", true
				},
				func(u *domain.User) { u.Email, u.PhoneNumber = "b@example.com", "+905552220002" },
			},
			input: func(in *SignupInput) { in.IdentityNumber = "10000000146" },
			want:  ErrPhoneAlreadyExists,
		},
		{
			name: "identity only",
			seed: []func(u *domain.User){
				func(u *domain.User) {
					u.Email, u.PhoneNumber = "a@example.com", "+905559990009"
					u.IdentityNumber.String, u.IdentityNumber.Valid = "10000000146", true
				},
			},
			input: func(in *SignupInput) { in.IdentityNumber = "10000000146" },
			want:  ErrIdentityNumberAlreadyExists,
		},
		{
			name: "deleted user does not conflict",
			seed: []func(u *domain.User){
				func(u *domain.User) { u.Email, u.IsDeleted = "mehmet@example.com", true },
			},
			input: func(in *SignupInput) {},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			for _, mutate := range tt.seed {
				seedUser(t, env.store, mutate)
			}

			in := validSignup()
			tt.input(&in)

			_, err := env.services.Auth.Signup(context.Background(), in)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuth_SignupDuplicateKeyRace(t *testing.T) {
	env := newTestEnv(t)
	env.store.duplicateKey = "uq_user_phone"

	_, err := env.services.Auth.Signup(context.Background(), validSignup())
	assert.ErrorIs(t, err, ErrPhoneAlreadyExists)
	assert.Empty(t, env.notifier.sent)
}

func TestAuth_SignupValidation(t *testing.T) {
	tests := []struct {
		name  string
		input func(in *SignupInput)
		field string
		want  error
	}{
		{name: "short first name", input: func(in *SignupInput) { in.FirstName = "A" }, field: "firstName"},
		{name: "bad email", input: func(in *SignupInput) { in.Email = "nope" }, field: "email"},
		{name: "bad phone", input: func(in *SignupInput) { in.PhoneNumber = "12345" }, field: "phoneNumber"},
		{name: "short password", input: func(in *SignupInput) { in.Password = "123" }, field: "password"},
		{name: "too young", input: func(in *SignupInput) { in.YearOfBirth = 2020 }, field: "yearOfBirth"},
		{name: "bad identity", input: func(in *SignupInput) { in.IdentityNumber = "12345678901" }, want: ErrInvalidIdentityNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			in := validSignup()
			tt.input(&in)

			_, err := env.services.Auth.Signup(context.Background(), in)
			require.Error(t, err)

			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestAuth_Login(t *testing.T) {
	env := newTestEnv(t)
	pending := seedUser(t, env.store, nil)
	approved := seedUser(t, env.store, func(u *domain.User) {
		u.Email, u.PhoneNumber = "approved@example.com", "+905553330003"
		u.ConfirmationStatus = domain.ConfirmationApproved
		u.EmailVerification, u.PhoneVerification = true, true
	})
	env.store.roles[approved.ID] = []string{domain.RoleUser, domain.RoleRestaurantOwner}

	_, err := env.services.Auth.Login(context.Background(), "missing@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.services.Auth.Login(context.Background(), approved.Email, "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.services.Auth.Login(context.Background(), pending.Email, "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := env.services.Auth.Login(context.Background(), "APPROVED@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleRestaurantOwner, domain.RoleUser}, res.Roles)

	stored := env.store.user(approved.ID)
	require.NotNil(t, stored.LastLoginDate)
	assert.Equal(t, env.clock.Now(), *stored.LastLoginDate)
	assert.Equal(t, res.Tokens.RefreshToken, stored.RefreshToken.String)
}

func TestAuth_RefreshRotation(t *testing.T) {
	env := newTestEnv(t)

	signup, err := env.services.Auth.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	first := signup.Tokens.RefreshToken

	rotated, err := env.services.Auth.Refresh(context.Background(), first)
	require.NoError(t, err)
	assert.NotEqual(t, first, rotated.Tokens.RefreshToken)
	assert.Equal(t, rotated.Tokens.RefreshToken, env.store.user(signup.User.ID).RefreshToken.String)

	// the previous token is single use
	_, err = env.services.Auth.Refresh(context.Background(), first)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	_, err = env.services.Auth.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	_, err = env.services.Auth.Refresh(context.Background(), signup.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	// the stored expiry is authoritative
	env.clock.Advance(8 * 24 * time.Hour)
	_, err = env.services.Auth.Refresh(context.Background(), rotated.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestAuth_RefreshLostRace(t *testing.T) {
	env := newTestEnv(t)

	signup, err := env.services.Auth.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	// another request rotated the token between lookup and update
	users := fakeUsers{env.store}
	svc := env.services.Auth.(*authService)
	svc.userRepository = racingUsers{fakeUsers: users}

	_, err = env.services.Auth.Refresh(context.Background(), signup.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

type racingUsers struct {
	fakeUsers
}

func (r racingUsers) RotateRefreshToken(ctx context.Context, id uuid.UUID, _ string, newToken string, expiry time.Time) error {
	_ = r.fakeUsers.RotateRefreshToken(ctx, id, r.s.users[id].RefreshToken.String, "winner", expiry)
	return r.fakeUsers.RotateRefreshToken(ctx, id, "stale", newToken, expiry)
}

func TestAuth_Me(t *testing.T) {
	env := newTestEnv(t)
	u := seedUser(t, env.store, nil)

	profile, err := env.services.Auth.Me(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, profile.User.Email)
	assert.Equal(t, []string{domain.RoleUser}, profile.Roles)

	_, err = env.services.Auth.Me(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
