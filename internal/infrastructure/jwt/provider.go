package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/moodcircle-api/internal/config"
	"github.com/moodcircle-api/internal/domain"
)

// Token type tags carried in the payload. A token signed with one secret and
// tagged with the other type never verifies against the wrong path.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims holds the JWT payload fields.
type Claims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs. Access and refresh tokens use
// independent secrets so a leaked refresh secret cannot mint access tokens
// and vice versa.
type Provider struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTAccessSecret == "" || cfg.JWTRefreshSecret == "" {
		return nil, errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must be set")
	}
	return &Provider{
		accessSecret:  []byte(cfg.JWTAccessSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}, nil
}

// SignAccess mints a short-lived stateless access token for userID.
func (p *Provider) SignAccess(userID string) (string, error) {
	return p.sign(userID, TypeAccess, p.accessSecret, p.accessTTL)
}

// SignRefresh mints a refresh token for userID. Callers are responsible for
// persisting the matching store record.
func (p *Provider) SignRefresh(userID string) (string, error) {
	return p.sign(userID, TypeRefresh, p.refreshSecret, p.refreshTTL)
}

// RefreshTTL exposes the refresh token lifetime so the store record expiry
// can match the signed expiry exactly.
func (p *Provider) RefreshTTL() time.Duration { return p.refreshTTL }

// VerifyAccess checks signature and expiry of an access token.
// Returns domain.ErrTokenExpired for a well-formed token past its TTL and
// domain.ErrTokenInvalid for every other failure, including a refresh token
// presented as an access token.
func (p *Provider) VerifyAccess(tokenStr string) (*Claims, error) {
	return p.verify(tokenStr, TypeAccess, p.accessSecret)
}

// VerifyRefresh checks signature and expiry of a refresh token against the
// refresh secret and type tag. Expiry is not distinguished here: the store
// lookup already encodes it, so callers see domain.ErrTokenInvalid either way.
func (p *Provider) VerifyRefresh(tokenStr string) (*Claims, error) {
	claims, err := p.verify(tokenStr, TypeRefresh, p.refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", domain.ErrTokenInvalid)
	}
	return claims, nil
}

func (p *Provider) sign(userID, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (p *Provider) verify(tokenStr, wantType string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", wantType, domain.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%s: %w", wantType, domain.ErrTokenInvalid)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != wantType {
		return nil, fmt.Errorf("%s: %w", wantType, domain.ErrTokenInvalid)
	}
	return claims, nil
}
