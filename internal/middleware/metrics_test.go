package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// =============================================================================
// Metrics Auth Middleware Tests
// =============================================================================

func serveMetrics(mw *MetricsAuthMiddleware, setup func(r *http.Request)) *httptest.ResponseRecorder {
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("metrics data"))
	}))
	req := httptest.NewRequest("GET", "/metrics", nil)
	if setup != nil {
		setup(req)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestMetricsAuthMiddleware_AllowsValidCredentials(t *testing.T) {
	rec := serveMetrics(NewMetricsAuthMiddleware("admin", "secret123"), func(r *http.Request) {
		r.SetBasicAuth("admin", "secret123")
	})

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "metrics data" {
		t.Errorf("expected body 'metrics data', got %q", rec.Body.String())
	}
}

func TestMetricsAuthMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"no credentials", nil},
		{"wrong username", func(r *http.Request) { r.SetBasicAuth("root", "secret123") }},
		{"wrong password", func(r *http.Request) { r.SetBasicAuth("admin", "secret") }},
		{"empty credentials", func(r *http.Request) { r.SetBasicAuth("", "") }},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", "Basic not-base64!") }},
		{"bearer token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer admin") }},
		{"missing colon", func(r *http.Request) {
			r.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("adminsecret123")))
		}},
	}
	mw := NewMetricsAuthMiddleware("admin", "secret123")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveMetrics(mw, tt.setup)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", rec.Code)
			}
			if !strings.HasPrefix(rec.Header().Get("WWW-Authenticate"), "Basic ") {
				t.Errorf("expected Basic WWW-Authenticate header, got %q", rec.Header().Get("WWW-Authenticate"))
			}
			if strings.Contains(rec.Body.String(), "metrics data") {
				t.Error("metrics must not be served without credentials")
			}
		})
	}
}

func TestMetricsAuthMiddleware_DisabledWhenNoCredentials(t *testing.T) {
	mw := NewMetricsAuthMiddleware("", "")
	if mw.Enabled() {
		t.Fatal("expected auth to be disabled")
	}

	rec := serveMetrics(mw, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200 when auth disabled, got %d", rec.Code)
	}
}

func TestMetricsAuthMiddleware_PasswordOnly(t *testing.T) {
	mw := NewMetricsAuthMiddleware("", "secret123")
	if !mw.Enabled() {
		t.Fatal("a password alone enables auth")
	}

	rec := serveMetrics(mw, func(r *http.Request) { r.SetBasicAuth("", "secret123") })
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}
