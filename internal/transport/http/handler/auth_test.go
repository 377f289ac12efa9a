package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/moodcircle-api/internal/application/auth"
	"github.com/moodcircle-api/internal/application/session"
	"github.com/moodcircle-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) RequestCode(ctx context.Context, email string) (*auth.RequestCodeResult, error) {
	args := m.Called(ctx, email)
	if r, _ := args.Get(0).(*auth.RequestCodeResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAuthService) VerifyCode(ctx context.Context, email, code string) (*auth.VerifyResult, error) {
	args := m.Called(ctx, email, code)
	if r, _ := args.Get(0).(*auth.VerifyResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSessionService struct{ mock.Mock }

func (m *mockSessionService) IssueTokens(ctx context.Context, userID string) (*session.TokenPair, error) {
	args := m.Called(ctx, userID)
	if p, _ := args.Get(0).(*session.TokenPair); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}
func (m *mockSessionService) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}
func (m *mockSessionService) LogoutAll(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// --- RequestOTP ---

func TestRequestOTP_HappyPath(t *testing.T) {
	as := &mockAuthService{}
	as.On("RequestCode", mock.Anything, "a@x.com").Return(&auth.RequestCodeResult{ExpiresInMinutes: 10}, nil)

	h := NewAuthHandler(as, nil)
	rr := postJSON(t, h.RequestOTP, `{"email":"a@x.com"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, float64(10), body["expiresIn"])
}

func TestRequestOTP_InvalidEmail_422(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)
	rr := postJSON(t, h.RequestOTP, `{"email":"nope"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestRequestOTP_RateLimited_429(t *testing.T) {
	as := &mockAuthService{}
	as.On("RequestCode", mock.Anything, "a@x.com").Return(nil, domain.ErrRateLimited)

	h := NewAuthHandler(as, nil)
	rr := postJSON(t, h.RequestOTP, `{"email":"a@x.com"}`)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestRequestOTP_DependencyFailure_Opaque500(t *testing.T) {
	as := &mockAuthService{}
	as.On("RequestCode", mock.Anything, "a@x.com").Return(nil, domain.ErrDependency)

	h := NewAuthHandler(as, nil)
	rr := postJSON(t, h.RequestOTP, `{"email":"a@x.com"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "dependency")
}

// --- VerifyOTP ---

func TestVerifyOTP_HappyPath_NeverEchoesEmail(t *testing.T) {
	as := &mockAuthService{}
	as.On("VerifyCode", mock.Anything, "a@x.com", "123456").Return(&auth.VerifyResult{
		User:   &domain.User{UserID: "u1", Email: "a@x.com", Pseudonym: "mood_deadbeef"},
		Tokens: &session.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
	}, nil)

	h := NewAuthHandler(as, nil)
	rr := postJSON(t, h.VerifyOTP, `{"email":"a@x.com","otp":"123456"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "mood_deadbeef")
	assert.Contains(t, rr.Body.String(), `"acc"`)
	assert.NotContains(t, rr.Body.String(), "a@x.com")
}

func TestVerifyOTP_WrongCode_401(t *testing.T) {
	as := &mockAuthService{}
	as.On("VerifyCode", mock.Anything, "a@x.com", "000000").Return(nil, domain.ErrInvalidCode)

	h := NewAuthHandler(as, nil)
	rr := postJSON(t, h.VerifyOTP, `{"email":"a@x.com","otp":"000000"}`)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_OTP")
}

func TestVerifyOTP_NonNumericCode_422(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)
	rr := postJSON(t, h.VerifyOTP, `{"email":"a@x.com","otp":"abcdef"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

// --- Refresh ---

func TestRefresh_HappyPath(t *testing.T) {
	ss := &mockSessionService{}
	ss.On("Refresh", mock.Anything, "ref").Return("new-access", nil)

	h := NewAuthHandler(nil, ss)
	rr := postJSON(t, h.Refresh, `{"refreshToken":"ref"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "new-access")
}

func TestRefresh_MissingToken_400(t *testing.T) {
	h := NewAuthHandler(nil, &mockSessionService{})
	rr := postJSON(t, h.Refresh, `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "NO_REFRESH_TOKEN")
}

func TestRefresh_InvalidToken_401(t *testing.T) {
	ss := &mockSessionService{}
	ss.On("Refresh", mock.Anything, "revoked").Return("", domain.ErrTokenInvalid)

	h := NewAuthHandler(nil, ss)
	rr := postJSON(t, h.Refresh, `{"refreshToken":"revoked"}`)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_REFRESH_TOKEN")
}

// --- Logout ---

func TestLogout_HappyPath(t *testing.T) {
	ss := &mockSessionService{}
	ss.On("Logout", mock.Anything, "ref").Return(nil)

	h := NewAuthHandler(nil, ss)
	rr := postJSON(t, h.Logout, `{"refreshToken":"ref"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	ss.AssertExpectations(t)
}

func TestLogoutAll_NoClaims_401(t *testing.T) {
	h := NewAuthHandler(nil, &mockSessionService{})
	rr := postJSON(t, h.LogoutAll, `{}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
