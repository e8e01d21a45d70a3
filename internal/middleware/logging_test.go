package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// =============================================================================
// Request Logging Middleware Tests
// =============================================================================

func serveLogged(t *testing.T, status int, req *http.Request) string {
	t.Helper()
	var buf bytes.Buffer
	mw := NewRequestLoggingMiddleware(slog.New(slog.NewTextHandler(&buf, nil)))

	wrapped := Stack(RequestID, mw.Handler)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(`{"ok":true}`))
	}))
	wrapped.ServeHTTP(httptest.NewRecorder(), req)
	return buf.String()
}

func TestRequestLoggingMiddleware_LogsBasicInfo(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/risk/score", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	req.Header.Set("User-Agent", "kyrisk-test")

	logOutput := serveLogged(t, http.StatusOK, req)

	for _, want := range []string{"POST", "/api/risk/score", "status=200", "duration_ms", "bytes=11", "192.168.1.1", "kyrisk-test", "request_id="} {
		if !strings.Contains(logOutput, want) {
			t.Errorf("log should contain %q, got: %s", want, logOutput)
		}
	}
}

func TestRequestLoggingMiddleware_LogsClientIPFromProxy(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/ruleset", nil)
	req.RemoteAddr = "10.0.0.1:8080"
	req.Header.Set("X-Forwarded-For", "203.0.113.195, 10.0.0.1")

	logOutput := serveLogged(t, http.StatusOK, req)

	if !strings.Contains(logOutput, "ip=203.0.113.195") {
		t.Errorf("log should contain client IP from X-Forwarded-For, got: %s", logOutput)
	}
}

func TestRequestLoggingMiddleware_LogsErrorStatusAtWarn(t *testing.T) {
	logOutput := serveLogged(t, http.StatusServiceUnavailable, httptest.NewRequest("POST", "/api/ky/generate", nil))

	if !strings.Contains(logOutput, "status=503") {
		t.Errorf("log should contain 503 status, got: %s", logOutput)
	}
	if !strings.Contains(logOutput, "level=WARN") {
		t.Errorf("5xx should log at WARN level, got: %s", logOutput)
	}
}

func TestRequestLoggingMiddleware_DoesNotLogSensitiveQueryParams(t *testing.T) {
	logOutput := serveLogged(t, http.StatusOK, httptest.NewRequest("GET", "/api/ruleset?api_key=s3cret&photo_key=sites/1/a.jpg&view=full", nil))

	if strings.Contains(logOutput, "s3cret") || strings.Contains(logOutput, "sites/1/a.jpg") {
		t.Errorf("log should not contain sensitive values, got: %s", logOutput)
	}
	if !strings.Contains(logOutput, "view=full") {
		t.Errorf("log should keep harmless params, got: %s", logOutput)
	}
}

func TestRequestLoggingMiddleware_SkipsNoisyPaths(t *testing.T) {
	for _, path := range []string{"/health", "/metrics"} {
		if out := serveLogged(t, http.StatusOK, httptest.NewRequest("GET", path, nil)); out != "" {
			t.Errorf("%s should not be logged, got: %s", path, out)
		}
	}
}

func TestResponseWriter_KeepsFirstStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.Write([]byte("body"))
	rw.WriteHeader(http.StatusTeapot)

	if rw.statusCode != http.StatusOK {
		t.Errorf("implicit 200 should stick after Write, got %d", rw.statusCode)
	}
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		path, query, want string
	}{
		{"/api/ruleset", "", "/api/ruleset"},
		{"/x", "token=abc", "/x?token=[REDACTED]"},
		{"/x", "Password=abc&a=b", "/x?Password=[REDACTED]&a=b"},
		{"/x", "novalue", "/x"},
	}
	for _, tt := range tests {
		if got := sanitizePath(tt.path, tt.query); got != tt.want {
			t.Errorf("sanitizePath(%q, %q) = %q, want %q", tt.path, tt.query, got, tt.want)
		}
	}
}
