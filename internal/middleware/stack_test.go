package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStack_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Stack(mark("outer"), mark("middle"), mark("inner"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if got := strings.Join(order, ","); got != "outer,middle,inner,handler" {
		t.Errorf("unexpected order: %s", got)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated when absent", "", false},
		{"client id reused", "ky-2024-06-01.abc", true},
		{"oversized id replaced", strings.Repeat("a", 65), false},
		{"unsafe id replaced", "abc\ndef", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if seen == "" {
				t.Fatal("expected a request id in context")
			}
			if got := rec.Header().Get(RequestIDHeader); got != seen {
				t.Errorf("response header %q does not match context %q", got, seen)
			}
			if tt.keep && seen != tt.incoming {
				t.Errorf("expected client id %q to be kept, got %q", tt.incoming, seen)
			}
			if !tt.keep && seen == tt.incoming {
				t.Errorf("expected id %q to be replaced", tt.incoming)
			}
		})
	}

	if GetRequestID(httptest.NewRequest("GET", "/", nil).Context()) != "" {
		t.Error("expected empty id outside the middleware")
	}
}
