package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/yemektaxi/backend/internal/config"
	"github.com/yemektaxi/backend/internal/domain"
	"github.com/yemektaxi/backend/internal/identity"
	"github.com/yemektaxi/backend/internal/repository"
	"github.com/yemektaxi/backend/pkg/auth"
	"github.com/yemektaxi/backend/pkg/hash"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	// token expiries come from the wall clock, so start from it
	return &fakeClock{now: time.Now().UTC().Truncate(time.Second)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixedGenerator struct {
	codes []string
	calls int
}

func (g *fixedGenerator) RandomCode(int) string {
	code := g.codes[g.calls%len(g.codes)]
	g.calls++
	return code
}

type memStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*domain.User
	roles        map[uuid.UUID][]string
	restaurants  map[uuid.UUID]*domain.Restaurant
	emailCodes   []*domain.EmailVerification
	otps         []*domain.OtpVerification
	duplicateKey string
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[uuid.UUID]*domain.User{},
		roles:       map[uuid.UUID][]string{},
		restaurants: map[uuid.UUID]*domain.Restaurant{},
	}
}

func (s *memStore) repositories() *repository.Repositories {
	return &repository.Repositories{
		Users:              fakeUsers{s},
		Roles:              fakeRoles{s},
		Restaurants:        fakeRestaurants{s},
		EmailVerifications: fakeEmailVerifications{s},
		OtpVerifications:   fakeOtps{s},
		Transactor:         fakeTransactor{},
	}
}

func (s *memStore) user(id uuid.UUID) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.users[id]
}

type fakeTransactor struct{}

func (fakeTransactor) WithinTx(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

type fakeUsers struct{ s *memStore }

func (f fakeUsers) CreateWithTx(_ context.Context, _ *sqlx.Tx, user *domain.User) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.duplicateKey != "" {
		return &domain.DuplicateEntryError{Key: f.s.duplicateKey}
	}
	u := *user
	f.s.users[u.ID] = &u
	return nil
}

func (f fakeUsers) GetOneByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[id]
	if !ok || u.IsDeleted {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, u := range f.s.users {
		if !u.IsDeleted && strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f fakeUsers) GetByRefreshToken(_ context.Context, token string, now time.Time) (*domain.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, u := range f.s.users {
		if !u.IsDeleted && u.RefreshToken.Valid && u.RefreshToken.String == token &&
			u.RefreshTokenExpiry != nil && u.RefreshTokenExpiry.After(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f fakeUsers) FindConflicts(_ context.Context, email, phone, identityNumber string) ([]domain.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []domain.User
	for _, u := range f.s.users {
		if u.IsDeleted {
			continue
		}
		if strings.EqualFold(u.Email, email) || u.PhoneNumber == phone ||
			(identityNumber != "" && u.IdentityNumber.String == identityNumber) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f fakeUsers) ExistsByIdentityNumber(_ context.Context, identityNumber string, excludeID uuid.UUID) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, u := range f.s.users {
		if !u.IsDeleted && u.ID != excludeID && u.IdentityNumber.Valid && u.IdentityNumber.String == identityNumber {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeUsers) SetSession(_ context.Context, id uuid.UUID, token string, expiry time.Time, loginAt *time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[id]
	if !ok {
		return domain.ErrNoRowsAffected
	}
	u.RefreshToken.String, u.RefreshToken.Valid = token, true
	u.RefreshTokenExpiry = &expiry
	if loginAt != nil {
		u.LastLoginDate = loginAt
	}
	return nil
}

func (f fakeUsers) RotateRefreshToken(_ context.Context, id uuid.UUID, oldToken, newToken string, expiry time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[id]
	if !ok || u.RefreshToken.String != oldToken {
		return domain.ErrNoRowsAffected
	}
	u.RefreshToken.String = newToken
	u.RefreshTokenExpiry = &expiry
	return nil
}

func (f fakeUsers) SetIdentityChecked(_ context.Context, id uuid.UUID, identityNumber string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u := f.s.users[id]
	u.IdentityNumber.String, u.IdentityNumber.Valid = identityNumber, true
	u.IdentityChecked = true
	return nil
}

func (f fakeUsers) SetEmailVerifiedWithTx(_ context.Context, _ *sqlx.Tx, id uuid.UUID) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.users[id].EmailVerification = true
	return nil
}

func (f fakeUsers) SetPhoneVerifiedWithTx(_ context.Context, _ *sqlx.Tx, id uuid.UUID) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.users[id].PhoneVerification = true
	return nil
}

func (f fakeUsers) AttachRestaurantWithTx(_ context.Context, _ *sqlx.Tx, id, restaurantID uuid.UUID) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u := f.s.users[id]
	if u.RestaurantID != nil {
		return domain.ErrNoRowsAffected
	}
	u.RestaurantID = &restaurantID
	u.IsNewUser = false
	return nil
}

type fakeRoles struct{ s *memStore }

func (f fakeRoles) AssignWithTx(_ context.Context, _ *sqlx.Tx, userID uuid.UUID, roleName string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, r := range f.s.roles[userID] {
		if r == roleName {
			return nil
		}
	}
	f.s.roles[userID] = append(f.s.roles[userID], roleName)
	return nil
}

func (f fakeRoles) ListNamesByUser(_ context.Context, userID uuid.UUID) ([]string, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := append([]string(nil), f.s.roles[userID]...)
	sort.Strings(out)
	return out, nil
}

type fakeRestaurants struct{ s *memStore }

func (f fakeRestaurants) CreateWithTx(_ context.Context, _ *sqlx.Tx, r *domain.Restaurant) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	cp := *r
	f.s.restaurants[r.ID] = &cp
	return nil
}

func (f fakeRestaurants) ExistsByOwner(_ context.Context, ownerID uuid.UUID) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, r := range f.s.restaurants {
		if !r.IsDeleted && r.OwnerID == ownerID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeRestaurants) FindConflicts(_ context.Context, name, email, phone string) ([]domain.Restaurant, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []domain.Restaurant
	for _, r := range f.s.restaurants {
		if !r.IsDeleted && (strings.EqualFold(r.Name, name) || strings.EqualFold(r.Email, email) || r.PhoneNumber == phone) {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeEmailVerifications struct{ s *memStore }

func (f fakeEmailVerifications) Create(_ context.Context, v *domain.EmailVerification) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	cp := *v
	f.s.emailCodes = append(f.s.emailCodes, &cp)
	return nil
}

func (f fakeEmailVerifications) GetActiveByEmail(_ context.Context, email string, now time.Time) (*domain.EmailVerification, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for i := len(f.s.emailCodes) - 1; i >= 0; i-- {
		v := f.s.emailCodes[i]
		if v.Email == email && v.IsActive(now) {
			cp := *v
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f fakeEmailVerifications) SoftDeleteExpired(_ context.Context, email string, now time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, v := range f.s.emailCodes {
		if v.Email == email && !v.IsDeleted && !now.Before(v.ExpiryDate) {
			v.IsDeleted = true
		}
	}
	return nil
}

func (f fakeEmailVerifications) SoftDeleteWithTx(_ context.Context, _ *sqlx.Tx, id uuid.UUID) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, v := range f.s.emailCodes {
		if v.ID == id && !v.IsDeleted {
			v.IsDeleted = true
			return nil
		}
	}
	return domain.ErrNoRowsAffected
}

type fakeOtps struct{ s *memStore }

func (f fakeOtps) GetByUserAndPhone(_ context.Context, userID uuid.UUID, phone string) (*domain.OtpVerification, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, o := range f.s.otps {
		if o.UserID == userID && o.PhoneNumber == phone {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f fakeOtps) Create(_ context.Context, v *domain.OtpVerification) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	cp := *v
	f.s.otps = append(f.s.otps, &cp)
	return nil
}

func (f fakeOtps) Renew(_ context.Context, id uuid.UUID, code string, generatedAt time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, o := range f.s.otps {
		if o.ID == id {
			o.OtpCode, o.GenerateDate, o.Verification, o.IsDeleted = code, generatedAt, false, false
			return nil
		}
	}
	return domain.ErrNoRowsAffected
}

func (f fakeOtps) GetLatestPending(_ context.Context, userID uuid.UUID, since time.Time) (*domain.OtpVerification, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var latest *domain.OtpVerification
	for _, o := range f.s.otps {
		if o.UserID != userID || o.Verification || o.IsDeleted || o.GenerateDate.Before(since) {
			continue
		}
		if latest == nil || o.GenerateDate.After(latest.GenerateDate) {
			latest = o
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (f fakeOtps) MarkVerifiedWithTx(_ context.Context, _ *sqlx.Tx, id uuid.UUID) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, o := range f.s.otps {
		if o.ID == id && !o.Verification {
			o.Verification = true
			return nil
		}
	}
	return domain.ErrNoRowsAffected
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []string
	fails bool
}

func (n *fakeNotifier) EnqueueSignupEmail(_ context.Context, email string, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fails {
		return errors.New("redis unavailable")
	}
	n.sent = append(n.sent, email)
	return nil
}

type fakeVerifier struct {
	result *identity.Result
	err    error
	calls  []identity.CheckRequest
}

func (v *fakeVerifier) Verify(_ context.Context, req identity.CheckRequest) (*identity.Result, error) {
	v.calls = append(v.calls, req)
	if v.err != nil {
		return nil, v.err
	}
	return v.result, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth = config.AuthConfig{
		JWT: config.JWTConfig{
			AccessTokenTTL:    15 * time.Minute,
			RefreshTokenTTL:   7 * 24 * time.Hour,
			AccessSigningKey:  "access-secret",
			RefreshSigningKey: "refresh-secret",
		},
		BcryptCost:             4,
		VerificationCodeLength: 6,
		EmailVerificationTTL:   24 * time.Hour,
		OtpTTL:                 3 * time.Minute,
		OtpCooldown:            3 * time.Minute,
	}
	cfg.Email.Enabled = true
	cfg.Email.Templates.Verification = "verification.html"
	cfg.Email.Templates.Signup = "signup.html"
	cfg.SMS.Enabled = true
	return cfg
}

func newTokenManager(t *testing.T, cfg *config.Config) *auth.Manager {
	t.Helper()
	m, err := auth.NewManager(cfg.Auth.JWT)
	require.NoError(t, err)
	return m
}

func newHasher() hash.PasswordHasher {
	return hash.NewBcryptHasher(4)
}

// seedUser stores a user with a hashed password and the User role.
func seedUser(t *testing.T, s *memStore, mutate func(u *domain.User)) *domain.User {
	t.Helper()

	pwd, err := newHasher().Hash("secret123")
	require.NoError(t, err)

	u := &domain.User{
		ID:                 uuid.New(),
		FirstName:          "Ayşe",
		LastName:           "Yılmaz",
		Email:              "ayse@example.com",
		PhoneNumber:        "+905551110001",
		YearOfBirth:        1990,
		Password:           pwd,
		ConfirmationStatus: domain.ConfirmationPending,
		Status:             domain.UserActive,
		IsNewUser:          true,
	}
	if mutate != nil {
		mutate(u)
	}

	s.mu.Lock()
	s.users[u.ID] = u
	s.roles[u.ID] = []string{domain.RoleUser}
	s.mu.Unlock()

	return u
}
