package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/sharetrack/sharetrack/internal/service"
	"github.com/sharetrack/sharetrack/internal/store/sqlite"
)

// newTestRouter wires the full API surface over an ephemeral SQLite
// store, without cache or rate limiting.
func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	trackerService := service.NewTrackerService(st, nil, nil, 0)
	videoService := service.NewVideoService(st, nil)
	referralService := service.NewReferralService(st, nil, nil, 0)

	trackHandler := NewTrackHandler(trackerService, logger)
	videoHandler := NewVideoHandler(videoService, logger)
	statsHandler := NewStatsHandler(trackerService, logger)
	referralHandler := NewReferralHandler(referralService, logger)
	healthHandler := NewHealthHandler(st, nil)

	r := chi.NewRouter()
	r.Get("/", Hello)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/track", trackHandler.Track)
	r.Route("/api", func(r chi.Router) {
		r.Post("/register", videoHandler.Register)
		r.Post("/edit_video", videoHandler.Edit)
		r.Post("/delete_video", videoHandler.Delete)
		r.Get("/videos/{id}", videoHandler.Get)
		r.Get("/user_stats", statsHandler.UserStats)
		r.Get("/ranking", statsHandler.Ranking)
		r.Post("/reset_clicks", statsHandler.ResetClicks)
		r.Route("/referral", func(r chi.Router) {
			r.Post("/code", referralHandler.Code)
			r.Post("/register", referralHandler.Register)
			r.Get("/ranking", referralHandler.Ranking)
			r.Post("/reset", referralHandler.Reset)
		})
	})
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	return r
}

// doJSON performs a request with an optional JSON body and decodes the
// JSON response into out (when out is non-nil).
func doJSON(t *testing.T, router http.Handler, method, target string, body, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec
}

// doJSONRaw serves a prebuilt request, for malformed-body cases.
func doJSONRaw(t *testing.T, router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHello(t *testing.T) {
	router := newTestRouter(t)

	var resp map[string]string
	rec := doJSON(t, router, http.MethodGet, "/", nil, &resp)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if resp["message"] == "" {
		t.Error("expected a message in response")
	}
}

func TestNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/does-not-exist", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodDelete, "/track", nil, nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	var health HealthResponse
	rec := doJSON(t, router, http.MethodGet, "/healthz", nil, &health)
	if rec.Code != http.StatusOK {
		t.Errorf("healthz: expected 200, got %d", rec.Code)
	}
	if health.Status != "ok" {
		t.Errorf("healthz: expected ok, got %q", health.Status)
	}

	var ready HealthResponse
	rec = doJSON(t, router, http.MethodGet, "/readyz", nil, &ready)
	if rec.Code != http.StatusOK {
		t.Errorf("readyz: expected 200, got %d", rec.Code)
	}
	if ready.Checks["store"] != "ok" {
		t.Errorf("readyz: expected store ok, got %q", ready.Checks["store"])
	}
	if ready.Checks["redis"] != "not configured" {
		t.Errorf("readyz: expected redis not configured, got %q", ready.Checks["redis"])
	}
}
