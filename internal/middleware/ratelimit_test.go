package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// RateLimiter Tests
// =============================================================================

func newTestLimiter(t *testing.T, max int, window time.Duration) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(max, window, slog.New(slog.DiscardHandler))
	t.Cleanup(rl.Close)
	return rl
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := newTestLimiter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("192.168.1.1") {
			t.Errorf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("192.168.1.1") {
		t.Error("4th request should be denied")
	}
	if !rl.Allow("192.168.1.2") {
		t.Error("other IPs have their own budget")
	}
}

func TestRateLimiter_WindowExpiry(t *testing.T) {
	rl := newTestLimiter(t, 1, 20*time.Millisecond)

	rl.Allow("ip")
	if rl.Allow("ip") {
		t.Fatal("second request in window should be denied")
	}
	if rl.TimeUntilReset("ip") <= 0 {
		t.Error("expected a positive reset time")
	}

	time.Sleep(30 * time.Millisecond)

	if !rl.Allow("ip") {
		t.Error("request after window should be allowed")
	}
}

func TestRateLimiter_CloseIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, slog.New(slog.DiscardHandler))
	rl.Close()
	rl.Close()
}

// =============================================================================
// RateLimitMiddleware Tests
// =============================================================================

func TestRateLimitMiddleware_BlocksAfterLimit(t *testing.T) {
	mw := NewRateLimitMiddleware(newTestLimiter(t, 2, time.Minute), slog.New(slog.DiscardHandler))
	wrapped := mw.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var rec *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/ky/generate", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rec = httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)

		if i < 2 && rec.Code != http.StatusOK {
			t.Errorf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header to be set")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %s", ct)
	}
	if !strings.Contains(rec.Body.String(), `"code":"rate_limit"`) {
		t.Errorf("expected rate_limit error code, got %s", rec.Body.String())
	}
}

func TestRateLimitMiddleware_KeysOnForwardedIP(t *testing.T) {
	mw := NewRateLimitMiddleware(newTestLimiter(t, 1, time.Minute), slog.New(slog.DiscardHandler))
	wrapped := mw.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(xff, realIP string) int {
		req := httptest.NewRequest("POST", "/api/ky/generate", nil)
		req.RemoteAddr = "10.0.0.1:80"
		if xff != "" {
			req.Header.Set("X-Forwarded-For", xff)
		}
		if realIP != "" {
			req.Header.Set("X-Real-IP", realIP)
		}
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("203.0.113.1", ""); code != http.StatusOK {
		t.Errorf("first client: expected 200, got %d", code)
	}
	if code := send("203.0.113.2, 10.0.0.1", ""); code != http.StatusOK {
		t.Errorf("second client behind same proxy: expected 200, got %d", code)
	}
	if code := send("", "198.51.100.7"); code != http.StatusOK {
		t.Errorf("X-Real-IP client: expected 200, got %d", code)
	}
	if code := send("203.0.113.1", ""); code != http.StatusTooManyRequests {
		t.Errorf("repeat client: expected 429, got %d", code)
	}
}

func TestGetClientIP_RemoteAddrWithoutPort(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.10"
	if got := getClientIP(req); got != "192.0.2.10" {
		t.Errorf("expected bare RemoteAddr, got %s", got)
	}
}
