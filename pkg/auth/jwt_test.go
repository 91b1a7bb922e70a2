package auth

import (
	"testing"
	"time"

	"github.com/fatflowers/karma/pkg/config"

	"github.com/stretchr/testify/require"
)

func newIssuer(secret string, ttl time.Duration) *Issuer {
	return NewIssuer(&config.Config{Auth: config.AuthConfig{JWTSecret: secret, TokenTTL: ttl}})
}

func TestIssueAndParse(t *testing.T) {
	i := newIssuer("0123456789abcdef0123456789abcdef", time.Hour)
	now := time.Now()

	token, exp, err := i.Issue("user-1", now)
	require.NoError(t, err)
	require.WithinDuration(t, now.Add(time.Hour), exp, time.Second)

	uid, err := i.Parse(token, now.Add(30*time.Minute))
	require.NoError(t, err)
	require.Equal(t, "user-1", uid)

	_, err = i.Parse(token, now.Add(2*time.Hour))
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = newIssuer("another-secret-another-secret-xx", time.Hour).Parse(token, now)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = i.Parse("garbage", now)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_Disabled(t *testing.T) {
	i := newIssuer("", 0)
	require.False(t, i.Enabled())
	_, _, err := i.Issue("u", time.Now())
	require.ErrorIs(t, err, ErrDisabled)
	_, err = i.Parse("x", time.Now())
	require.ErrorIs(t, err, ErrDisabled)
}
