package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/civicsignal/positions-backend/internal/middleware"
)

// callWithOrigin wraps a simple 200-OK inner handler in the CORS
// middleware, sends a request with the given method and Origin header,
// and returns the recorded response.
func callWithOrigin(t *testing.T, method, origin string) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.CORSMiddleware(inner)
	req := httptest.NewRequest(method, "/test", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestCORSMiddleware_AllowedOrigin verifies that an allow-listed origin is
// echoed back with the CORS headers set.
func TestCORSMiddleware_AllowedOrigin(t *testing.T) {
	rec := callWithOrigin(t, http.MethodGet, "http://localhost:5173")

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("expected origin echoed back, got %q", got)
	}
	if got := rec.Header().Get("Vary"); got != "Origin" {
		t.Errorf("expected Vary: Origin, got %q", got)
	}
}

// TestCORSMiddleware_DisallowedOrigin verifies that an unknown origin gets
// no CORS headers but the request still reaches the inner handler.
func TestCORSMiddleware_DisallowedOrigin(t *testing.T) {
	rec := callWithOrigin(t, http.MethodGet, "https://evil.example.com")

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no Allow-Origin header, got %q", got)
	}
}

// TestCORSMiddleware_Preflight verifies that an OPTIONS request is answered
// with 204 and never reaches the inner handler.
func TestCORSMiddleware_Preflight(t *testing.T) {
	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	handler := middleware.CORSMiddleware(inner)
	req := httptest.NewRequest(http.MethodOptions, "/test", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if called {
		t.Error("inner handler should not run on preflight")
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("expected Allow-Methods header on preflight")
	}
}

// TestCORSMiddleware_NoOrigin verifies that same-origin requests (no Origin
// header) pass through untouched.
func TestCORSMiddleware_NoOrigin(t *testing.T) {
	rec := callWithOrigin(t, http.MethodGet, "")

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no Allow-Origin header, got %q", got)
	}
}
