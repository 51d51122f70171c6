package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sharetrack/sharetrack/internal/auth"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID_Generated(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if captured == "" {
		t.Fatal("expected a generated request id in context")
	}
	if got := rec.Header().Get(RequestIDHeader); got != captured {
		t.Errorf("expected header %q to match context id %q", got, captured)
	}
}

func TestRequestID_Propagated(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if captured != "client-supplied-id" {
		t.Errorf("expected client id to be kept, got %q", captured)
	}
}

func TestLogger_CapturesStatus(t *testing.T) {
	handler := Logger(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("expected wrapped status to pass through, got %d", rec.Code)
	}
}

func TestRecoverer(t *testing.T) {
	handler := Recoverer(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 after panic, got %d", rec.Code)
	}
}

func TestAdminOnly(t *testing.T) {
	hash, err := auth.HashToken("s3cret")
	if err != nil {
		t.Fatalf("hash token: %v", err)
	}

	tests := []struct {
		name     string
		hash     string
		token    string
		wantCode int
	}{
		{"valid token", hash, "s3cret", http.StatusOK},
		{"wrong token", hash, "wrong", http.StatusUnauthorized},
		{"missing token", hash, "", http.StatusUnauthorized},
		{"unconfigured hash denies all", "", "s3cret", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AdminOnly(tt.hash, discardLogger())(okHandler())

			req := httptest.NewRequest(http.MethodPost, "/api/reset_clicks", nil)
			if tt.token != "" {
				req.Header.Set(AdminTokenHeader, tt.token)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
		})
	}
}

func TestRateLimitIP_DisabledPassesThrough(t *testing.T) {
	handler := RateLimitIP(RateLimitConfig{
		Logger:  discardLogger(),
		Enabled: false,
	})(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/track", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected pass-through when disabled, got %d", rec.Code)
	}
}

func TestRateLimitIP_NoCachePassesThrough(t *testing.T) {
	handler := RateLimitIP(RateLimitConfig{
		Logger:  discardLogger(),
		Enabled: true,
		Cache:   nil,
	})(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/track", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected pass-through without cache, got %d", rec.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"x-forwarded-for single", map[string]string{"X-Forwarded-For": "203.0.113.5"}, "10.0.0.1:1234", "203.0.113.5"},
		{"x-forwarded-for chain", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.2"}, "10.0.0.1:1234", "203.0.113.5"},
		{"x-real-ip", map[string]string{"X-Real-IP": "203.0.113.9"}, "10.0.0.1:1234", "203.0.113.9"},
		{"remote addr fallback", nil, "10.0.0.1:1234", "10.0.0.1:1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
