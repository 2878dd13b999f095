package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/yemektaxi/backend/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenManager provides logic for access & refresh JWT generation and parsing.
type TokenManager interface {
	NewPair(userID uuid.UUID, email string) (*TokenPair, error)
	ParseAccess(accessToken string) (*Claims, error)
	ParseRefresh(refreshToken string) (*Claims, error)
}

type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type Manager struct {
	accessKey       []byte
	refreshKey      []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	now             func() time.Time
}

func NewManager(cfg config.JWTConfig) (*Manager, error) {
	if cfg.AccessSigningKey == "" || cfg.RefreshSigningKey == "" {
		return nil, errors.New("empty signing key")
	}

	if cfg.AccessSigningKey == cfg.RefreshSigningKey {
		return nil, errors.New("access and refresh signing keys must differ")
	}

	if cfg.AccessTokenTTL == 0 {
		return nil, errors.New("empty access token ttl")
	}

	if cfg.RefreshTokenTTL == 0 {
		return nil, errors.New("empty refresh token ttl")
	}

	return &Manager{
		accessKey:       []byte(cfg.AccessSigningKey),
		refreshKey:      []byte(cfg.RefreshSigningKey),
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
		now:             time.Now,
	}, nil
}

func (m *Manager) NewPair(userID uuid.UUID, email string) (*TokenPair, error) {
	now := m.now()

	var (
		pair TokenPair
		err  error
	)

	pair.AccessExpiresAt = now.Add(m.accessTokenTTL)
	pair.AccessToken, err = m.sign(userID, email, now, pair.AccessExpiresAt, m.accessKey)
	if err != nil {
		return nil, fmt.Errorf("sign access token failed: %w", err)
	}

	pair.RefreshExpiresAt = now.Add(m.refreshTokenTTL)
	pair.RefreshToken, err = m.sign(userID, email, now, pair.RefreshExpiresAt, m.refreshKey)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token failed: %w", err)
	}

	return &pair, nil
}

func (m *Manager) sign(userID uuid.UUID, email string, issuedAt, expiresAt time.Time, key []byte) (string, error) {
	jti, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate token id failed: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti.String(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	return token.SignedString(key)
}

func (m *Manager) ParseAccess(accessToken string) (*Claims, error) {
	return m.parse(accessToken, m.accessKey)
}

func (m *Manager) ParseRefresh(refreshToken string) (*Claims, error) {
	return m.parse(refreshToken, m.refreshKey)
}

func (m *Manager) parse(tokenString string, key []byte) (*Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return key, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, fmt.Errorf("%w: bad subject: %w", ErrInvalidToken, err)
	}

	return &claims, nil
}
