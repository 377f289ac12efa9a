package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/moodcircle-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, MessageEnvelope{Error: msg, Code: code})
}

// httpError maps domain sentinels to HTTP responses. The switch is the only
// place error categories become status codes; nothing here parses message
// text. The dependency failure case stays opaque; the cause is logged, not returned.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error(), "RATE_LIMITED")
	case errors.Is(err, domain.ErrInvalidCode):
		writeError(w, http.StatusUnauthorized, "invalid or expired verification code", "INVALID_OTP")
	case errors.Is(err, domain.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "access token expired", "TOKEN_EXPIRED")
	case errors.Is(err, domain.ErrTokenInvalid):
		writeError(w, http.StatusUnauthorized, "invalid or expired refresh token", "INVALID_REFRESH_TOKEN")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
	default:
		slog.Error("internal error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
