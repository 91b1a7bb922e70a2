package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatflowers/karma/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/fx"
)

var (
	ErrDisabled     = errors.New("auth: jwt secret is not configured")
	ErrInvalidToken = errors.New("auth: invalid token")
)

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Issuer signs and parses HS256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(cfg *config.Config) *Issuer {
	ttl := cfg.Auth.TokenTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Issuer{secret: []byte(cfg.Auth.JWTSecret), ttl: ttl}
}

func (i *Issuer) Enabled() bool { return len(i.secret) > 0 }

func (i *Issuer) Issue(userID string, now time.Time) (string, time.Time, error) {
	if !i.Enabled() {
		return "", time.Time{}, ErrDisabled
	}
	exp := now.Add(i.ttl)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return token, exp, nil
}

// Parse validates the token and returns the user id it was issued for.
func (i *Issuer) Parse(token string, now time.Time) (string, error) {
	if !i.Enabled() {
		return "", ErrDisabled
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

var Module = fx.Options(
	fx.Provide(NewIssuer),
)
