package jwtinfra

import (
	"errors"
	"testing"
	"time"

	"github.com/moodcircle-api/internal/config"
	"github.com/moodcircle-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, accessTTL time.Duration) *Provider {
	t.Helper()
	p, err := NewProvider(&config.Config{
		JWTAccessSecret:  "access-secret-for-tests",
		JWTRefreshSecret: "refresh-secret-for-tests",
		AccessTokenTTL:   accessTTL,
		RefreshTokenTTL:  7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_MissingSecrets(t *testing.T) {
	_, err := NewProvider(&config.Config{})
	assert.Error(t, err)
}

func TestSignAccess_RoundTrip(t *testing.T) {
	p := newTestProvider(t, 15*time.Minute)

	signed, err := p.SignAccess("u1")
	require.NoError(t, err)

	claims, err := p.VerifyAccess(signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, TypeAccess, claims.TokenType)
}

func TestVerifyAccess_Expired(t *testing.T) {
	p := newTestProvider(t, -time.Minute) // already past TTL when signed

	signed, err := p.SignAccess("u1")
	require.NoError(t, err)

	_, err = p.VerifyAccess(signed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTokenExpired))
	assert.False(t, errors.Is(err, domain.ErrTokenInvalid))
}

func TestVerifyAccess_Malformed(t *testing.T) {
	p := newTestProvider(t, 15*time.Minute)

	_, err := p.VerifyAccess("not-a-jwt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTokenInvalid))
}

func TestVerifyAccess_RejectsRefreshToken(t *testing.T) {
	p := newTestProvider(t, 15*time.Minute)

	refresh, err := p.SignRefresh("u1")
	require.NoError(t, err)

	// Wrong secret and wrong type tag must be invalid, not expired.
	_, err = p.VerifyAccess(refresh)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTokenInvalid))
}

func TestVerifyAccess_WrongSecret(t *testing.T) {
	p := newTestProvider(t, 15*time.Minute)
	other, err := NewProvider(&config.Config{
		JWTAccessSecret:  "some-other-secret",
		JWTRefreshSecret: "refresh-secret-for-tests",
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  7 * 24 * time.Hour,
	})
	require.NoError(t, err)

	signed, err := other.SignAccess("u1")
	require.NoError(t, err)

	_, err = p.VerifyAccess(signed)
	assert.True(t, errors.Is(err, domain.ErrTokenInvalid))
}

func TestVerifyRefresh_RoundTrip(t *testing.T) {
	p := newTestProvider(t, 15*time.Minute)

	signed, err := p.SignRefresh("u1")
	require.NoError(t, err)

	claims, err := p.VerifyRefresh(signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, TypeRefresh, claims.TokenType)
}

func TestVerifyRefresh_RejectsAccessToken(t *testing.T) {
	p := newTestProvider(t, 15*time.Minute)

	access, err := p.SignAccess("u1")
	require.NoError(t, err)

	_, err = p.VerifyRefresh(access)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTokenInvalid))
}
