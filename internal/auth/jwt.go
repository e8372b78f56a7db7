// Package auth validates bearer credentials and resolves them into actors.
// Token issuance lives elsewhere; the service only needs validation, plus a
// Generate helper used by the dev token tool and tests.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"watchlist/internal/domain"
)

// ErrInvalidToken covers malformed, expired, or badly signed credentials.
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims carries the identity payload inside a token.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and validates HS256 tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager builds a token manager. The secret must be non-empty; ttl
// bounds the lifetime of generated tokens.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("auth: secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl}, nil
}

// Generate mints a signed token for the given identity.
func (m *Manager) Generate(subject, username string, role domain.Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: username,
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Validate checks a token's signature and time bounds and returns the actor
// it identifies.
func (m *Manager) Validate(raw string) (*domain.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	role := domain.RoleRegular
	if claims.Role == string(domain.RoleAdmin) {
		role = domain.RoleAdmin
	}
	return &domain.Actor{
		ID:       claims.Subject,
		Username: claims.Username,
		Role:     role,
	}, nil
}
