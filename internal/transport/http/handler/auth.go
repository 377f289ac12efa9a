package handler

import (
	"encoding/json"
	"net/http"

	"github.com/moodcircle-api/internal/application/auth"
	"github.com/moodcircle-api/internal/application/session"
	"github.com/moodcircle-api/internal/pkg/validate"
	"github.com/moodcircle-api/internal/transport/http/middleware"
)

// RequestOTPRequest is the request-code payload.
type RequestOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyOTPRequest is the verify-code payload. The code is an exact-length
// numeric string; anything else is rejected before reaching the engine.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// AuthHandler handles the passwordless login endpoints.
type AuthHandler struct {
	authSvc    auth.Service
	sessionSvc session.Service
}

func NewAuthHandler(authSvc auth.Service, sessionSvc session.Service) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, sessionSvc: sessionSvc}
}

func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req RequestOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error(), "VALIDATION_ERROR")
		return
	}
	res, err := h.authSvc.RequestCode(r.Context(), req.Email)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		MessageEnvelope
		ExpiresIn int `json:"expiresIn"`
	}{
		MessageEnvelope: MessageEnvelope{Message: "Verification code sent to your email"},
		ExpiresIn:       res.ExpiresInMinutes,
	})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error(), "VALIDATION_ERROR")
		return
	}
	res, err := h.authSvc.VerifyCode(r.Context(), req.Email, req.OTP)
	if err != nil {
		httpError(w, err)
		return
	}
	// res.User serializes id and pseudonym only; the email never leaves.
	writeJSON(w, http.StatusOK, res)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh token required", "NO_REFRESH_TOKEN")
		return
	}
	access, err := h.sessionSvc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		AccessToken string `json:"accessToken"`
	}{AccessToken: access})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh token required", "NO_REFRESH_TOKEN")
		return
	}
	if err := h.sessionSvc.Logout(r.Context(), req.RefreshToken); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Logged out successfully"})
}

func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "NO_TOKEN")
		return
	}
	if err := h.sessionSvc.LogoutAll(r.Context(), claims.UserID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "All sessions logged out"})
}
