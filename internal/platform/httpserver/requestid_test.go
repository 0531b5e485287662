package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	var seen string
	h := RequestIDMiddleware("X-Request-Id")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("no request id in context")
	}
	if got := rec.Header().Get("X-Request-Id"); got != seen {
		t.Fatalf("header %q != context %q", got, seen)
	}
}

func TestRequestIDPropagatedWhenPresent(t *testing.T) {
	var seen string
	h := RequestIDMiddleware("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "rid-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "rid-123" {
		t.Fatalf("context id = %q", seen)
	}
	if got := rec.Header().Get("X-Request-Id"); got != "rid-123" {
		t.Fatalf("header = %q", got)
	}
}

func TestRequestIDReplacedWhenOversized(t *testing.T) {
	var seen string
	h := RequestIDMiddleware("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	long := make([]byte, maxRequestIDLen+1)
	for i := range long {
		long[i] = 'a'
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", string(long))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen == string(long) || seen == "" {
		t.Fatalf("oversized id kept: %q", seen)
	}
	if got := rec.Header().Get("X-Request-Id"); got != seen {
		t.Fatalf("header %q != context %q", got, seen)
	}
}

func TestSetupRouterCORSPreflight(t *testing.T) {
	r := chi.NewRouter()
	SetupRouter(r)
	r.Get("/api/movies/popular", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/movies/popular", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK && rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}
