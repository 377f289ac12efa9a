package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/moodcircle-api/internal/domain"
	jwtinfra "github.com/moodcircle-api/internal/infrastructure/jwt"
)

// TokenProvider signs and verifies the stateless halves of the credential pair.
type TokenProvider interface {
	SignAccess(userID string) (string, error)
	SignRefresh(userID string) (string, error)
	VerifyRefresh(token string) (*jwtinfra.Claims, error)
	RefreshTTL() time.Duration
}

// RefreshTokenStore persists refresh-token records keyed by token value.
type RefreshTokenStore interface {
	Put(ctx context.Context, t *domain.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	SetRevoked(ctx context.Context, token string) error
	SetRevokedForUser(ctx context.Context, userID string) error
}

// TokenPair is the credential set handed out on successful verification.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Service interface {
	// IssueTokens mints an access/refresh pair for userID and persists the
	// refresh record with revoked=false.
	IssueTokens(ctx context.Context, userID string) (*TokenPair, error)
	// Refresh exchanges a live refresh token for a new access token. The
	// refresh token itself is not rotated.
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	// Logout revokes a single refresh token. Idempotent.
	Logout(ctx context.Context, refreshToken string) error
	// LogoutAll revokes every outstanding refresh token for userID.
	LogoutAll(ctx context.Context, userID string) error
}

type service struct {
	tokens TokenProvider
	store  RefreshTokenStore
}

func NewService(tokens TokenProvider, store RefreshTokenStore) Service {
	return &service{tokens: tokens, store: store}
}

func (s *service) IssueTokens(ctx context.Context, userID string) (*TokenPair, error) {
	access, err := s.tokens.SignAccess(userID)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", domain.ErrDependency)
	}
	refresh, err := s.tokens.SignRefresh(userID)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", domain.ErrDependency)
	}
	now := time.Now().UTC()
	rec := &domain.RefreshToken{
		Token:     refresh,
		UserID:    userID,
		ExpiresAt: now.Add(s.tokens.RefreshTTL()).Unix(),
		Revoked:   false,
		CreatedAt: now,
	}
	if err := s.store.Put(ctx, rec); err != nil {
		slog.Error("failed to persist refresh token", "user_id", userID, "err", err)
		return nil, fmt.Errorf("store refresh token: %w", domain.ErrDependency)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh token rejected: %w", domain.ErrTokenInvalid)
	}
	rec, err := s.store.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// A signed token the store never saw: treat exactly like a bad
			// signature so callers can't tell the difference.
			return "", fmt.Errorf("refresh token unknown: %w", domain.ErrTokenInvalid)
		}
		return "", fmt.Errorf("refresh token lookup: %w", domain.ErrDependency)
	}
	if !rec.Usable(time.Now()) {
		return "", fmt.Errorf("refresh token inert: %w", domain.ErrTokenInvalid)
	}
	access, err := s.tokens.SignAccess(claims.UserID)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", domain.ErrDependency)
	}
	return access, nil
}

func (s *service) Logout(ctx context.Context, refreshToken string) error {
	if err := s.store.SetRevoked(ctx, refreshToken); err != nil {
		return fmt.Errorf("revoke refresh token: %w", domain.ErrDependency)
	}
	slog.Info("refresh token revoked")
	return nil
}

func (s *service) LogoutAll(ctx context.Context, userID string) error {
	if err := s.store.SetRevokedForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke user tokens: %w", domain.ErrDependency)
	}
	slog.Info("all sessions revoked", "user_id", userID)
	return nil
}
