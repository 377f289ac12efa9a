package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/moodcircle-api/internal/application/session"
	"github.com/moodcircle-api/internal/domain"
	"github.com/moodcircle-api/internal/pkg/sanitize"
)

// OTPStore persists one-time-code records keyed by normalized email.
type OTPStore interface {
	FindActive(ctx context.Context, email string) (*domain.OTPCode, error)
	// PutIfNoneActive atomically inserts unless an unexpired record exists,
	// returning domain.ErrRateLimited when one does.
	PutIfNoneActive(ctx context.Context, c *domain.OTPCode) error
	DeleteByEmail(ctx context.Context, email string) error
	// Consume atomically deletes on exact (email, code) match with remaining
	// TTL, reporting whether a row was actually removed.
	Consume(ctx context.Context, email, code string) (removed bool, err error)
}

// Mailer delivers a one-time code to an address.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string, expiry time.Duration) error
}

// IdentityResolver maps a verified email to an identity.
type IdentityResolver interface {
	ResolveOrCreate(ctx context.Context, email string) (*domain.User, error)
}

// TokenIssuer mints the credential pair after a confirmed verification.
type TokenIssuer interface {
	IssueTokens(ctx context.Context, userID string) (*session.TokenPair, error)
}

// RequestCodeResult acknowledges issuance. The code itself is never echoed.
type RequestCodeResult struct {
	ExpiresInMinutes int `json:"expiresIn"`
}

// VerifyResult is the login payload: pseudonymous identity plus credentials.
type VerifyResult struct {
	User   *domain.User       `json:"user"`
	Tokens *session.TokenPair `json:"tokens"`
}

type Service interface {
	RequestCode(ctx context.Context, email string) (*RequestCodeResult, error)
	VerifyCode(ctx context.Context, email, code string) (*VerifyResult, error)
}

type service struct {
	otpStore  OTPStore
	mailer    Mailer
	resolver  IdentityResolver
	issuer    TokenIssuer
	otpLength int
	otpExpiry time.Duration
}

func NewService(otpStore OTPStore, mailer Mailer, resolver IdentityResolver, issuer TokenIssuer, otpLength int, otpExpiry time.Duration) Service {
	return &service{
		otpStore:  otpStore,
		mailer:    mailer,
		resolver:  resolver,
		issuer:    issuer,
		otpLength: otpLength,
		otpExpiry: otpExpiry,
	}
}

func (s *service) RequestCode(ctx context.Context, email string) (*RequestCodeResult, error) {
	email = sanitize.Email(email)
	if email == "" {
		return nil, fmt.Errorf("valid email required: %w", domain.ErrBadRequest)
	}

	if existing, err := s.otpStore.FindActive(ctx, email); err == nil {
		return nil, rateLimited(existing.ExpiresAt)
	} else if !errors.Is(err, domain.ErrNotFound) {
		slog.Error("otp lookup failed", "err", err)
		return nil, fmt.Errorf("otp lookup: %w", domain.ErrDependency)
	}

	// Clear any stale record so the conditional insert below starts clean.
	if err := s.otpStore.DeleteByEmail(ctx, email); err != nil {
		slog.Error("stale otp cleanup failed", "err", err)
		return nil, fmt.Errorf("otp cleanup: %w", domain.ErrDependency)
	}

	code, err := generateCode(s.otpLength)
	if err != nil {
		return nil, fmt.Errorf("otp generation: %w", domain.ErrDependency)
	}
	rec := &domain.OTPCode{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(s.otpExpiry).Unix(),
	}
	// The conditional write is the issuance race guard: of two concurrent
	// requests that both passed the check above, exactly one insert lands.
	if err := s.otpStore.PutIfNoneActive(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			return nil, rateLimited(rec.ExpiresAt)
		}
		slog.Error("otp insert failed", "err", err)
		return nil, fmt.Errorf("otp insert: %w", domain.ErrDependency)
	}

	if err := s.mailer.SendOTP(ctx, email, code, s.otpExpiry); err != nil {
		// Roll the code back: the client never received it, and leaving it
		// behind would turn their retry into a spurious rate limit.
		if delErr := s.otpStore.DeleteByEmail(ctx, email); delErr != nil {
			slog.Error("failed to roll back undelivered otp", "err", delErr)
		}
		slog.Error("otp email dispatch failed", "err", err)
		return nil, fmt.Errorf("email dispatch: %w", domain.ErrDependency)
	}

	slog.Info("otp issued")
	slog.Debug("otp code issued", "email", email, "code", code)
	return &RequestCodeResult{ExpiresInMinutes: int(s.otpExpiry.Minutes())}, nil
}

func (s *service) VerifyCode(ctx context.Context, email, code string) (*VerifyResult, error) {
	email = sanitize.Email(email)
	if email == "" {
		// Indistinguishable from a wrong code on purpose.
		return nil, fmt.Errorf("verify: %w", domain.ErrInvalidCode)
	}

	removed, err := s.otpStore.Consume(ctx, email, code)
	if err != nil {
		slog.Error("otp consume failed", "err", err)
		return nil, fmt.Errorf("otp consume: %w", domain.ErrDependency)
	}
	if !removed {
		// Wrong code, expired code, or a concurrent caller won the delete.
		// One error kind for all three.
		return nil, fmt.Errorf("verify: %w", domain.ErrInvalidCode)
	}

	user, err := s.resolver.ResolveOrCreate(ctx, email)
	if err != nil {
		return nil, err
	}
	tokens, err := s.issuer.IssueTokens(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	slog.Info("user authenticated", "user_id", user.UserID)
	return &VerifyResult{User: user, Tokens: tokens}, nil
}

// rateLimited wraps ErrRateLimited with the whole minutes remaining until the
// outstanding code expires, rounded up.
func rateLimited(expiresAt int64) error {
	remaining := time.Until(time.Unix(expiresAt, 0))
	minutes := int((remaining + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Errorf("please wait %d minutes before requesting a new code: %w", minutes, domain.ErrRateLimited)
}

// generateCode draws each digit independently and uniformly from 0-9.
func generateCode(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b[i] = '0' + byte(n.Int64())
	}
	return string(b), nil
}
