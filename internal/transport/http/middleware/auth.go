package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/moodcircle-api/internal/domain"
	jwtinfra "github.com/moodcircle-api/internal/infrastructure/jwt"
)

type contextKey string

const ClaimsKey contextKey = "claims"

// AccessVerifier validates stateless access tokens.
type AccessVerifier interface {
	VerifyAccess(token string) (*jwtinfra.Claims, error)
}

// Auth returns middleware that validates the Bearer access token and injects
// claims into context. Status codes distinguish the client's next move:
// 401 TOKEN_EXPIRED means "refresh and retry", 403 INVALID_TOKEN means
// "re-authenticate".
func Auth(verifier AccessVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "access token required", "NO_TOKEN")
				return
			}
			claims, err := verifier.VerifyAccess(token)
			if err != nil {
				slog.Warn("authentication failed", "err", err)
				if errors.Is(err, domain.ErrTokenExpired) {
					writeJSONError(w, http.StatusUnauthorized, "access token expired", "TOKEN_EXPIRED")
					return
				}
				writeJSONError(w, http.StatusForbidden, "invalid access token", "INVALID_TOKEN")
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth injects claims when a valid token is present but never rejects
// the request. Anonymous and authenticated callers share the endpoint.
func OptionalAuth(verifier AccessVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				if claims, err := verifier.VerifyAccess(token); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), ClaimsKey, claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext extracts access-token claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*jwtinfra.Claims)
	return c, ok
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(h, "Bearer ")
	return token, token != ""
}
