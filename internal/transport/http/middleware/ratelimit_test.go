package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRealIP_XForwardedFor_FirstHop(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	assert.Equal(t, "1.2.3.4", realIP(req))
}

func TestRealIP_XRealIP_Fallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Real-Ip", "9.10.11.12")
	assert.Equal(t, "9.10.11.12", realIP(req))
}

func TestRealIP_RemoteAddr_Fallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "192.168.1.1:54321"
	assert.Equal(t, "192.168.1.1", realIP(req))
}

func TestRealIP_XForwardedFor_TakesPrecedence(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.1.1.1")
	req.Header.Set("X-Real-Ip", "2.2.2.2")
	assert.Equal(t, "1.1.1.1", realIP(req))
}

func limited(rl *RateLimiter, ip string) int {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Real-Ip", ip)
	rr := httptest.NewRecorder()
	rl.Limit(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	return rr.Code
}

func TestLimit_BurstThenRejects(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(0.001), 2)

	assert.Equal(t, http.StatusOK, limited(rl, "3.3.3.3"))
	assert.Equal(t, http.StatusOK, limited(rl, "3.3.3.3"))
	assert.Equal(t, http.StatusTooManyRequests, limited(rl, "3.3.3.3"))
}

func TestLimit_IPsHaveIndependentBuckets(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(0.001), 1)

	assert.Equal(t, http.StatusOK, limited(rl, "4.4.4.4"))
	assert.Equal(t, http.StatusTooManyRequests, limited(rl, "4.4.4.4"))
	assert.Equal(t, http.StatusOK, limited(rl, "5.5.5.5"))
}
