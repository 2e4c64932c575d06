package middleware

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"empdash/internal/platform/seclog"
	"empdash/internal/transport/http/api"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitAllowsWithinWindow(t *testing.T) {
	handler := RateLimit(3, time.Minute, IPKey, seclog.New(io.Discard))(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	handler := RateLimit(2, time.Minute, IPKey, seclog.New(io.Discard))(okHandler())

	var rec *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("expected zero remaining, got %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
	envelope := decodeEnvelope(t, rec.Body)
	if envelope.Error == nil || envelope.Error.Type != api.TypeRateLimited {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestRateLimitKeysAreIndependent(t *testing.T) {
	handler := RateLimit(1, time.Minute, IPKey, seclog.New(io.Discard))(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	first.RemoteAddr = "10.0.0.3:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.RemoteAddr = "10.0.0.4:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	if rec.Code != http.StatusOK {
		t.Fatalf("different IP must have its own bucket, got %d", rec.Code)
	}
}

func TestLoginRateLimitKeysOnIdentifier(t *testing.T) {
	handler := LoginRateLimit(2, time.Minute, "email", seclog.New(io.Discard))(okHandler())

	// Same target account from different IPs still trips the limiter.
	for i := 0; i < 3; i++ {
		body := strings.NewReader(`{"email":"admin@company.com","password":"x"}`)
		req := httptest.NewRequest(http.MethodPost, "/auth/admin", body)
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = fmt.Sprintf("10.0.1.%d:1234", i+1)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if i < 2 && rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, rec.Code)
		}
		if i == 2 && rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429 on third attempt, got %d", rec.Code)
		}
	}
}

func TestLoginRateLimitRestoresBody(t *testing.T) {
	var seen string
	handler := LoginRateLimit(5, time.Minute, "email", seclog.New(io.Discard))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read error: %v", err)
		}
		seen = string(raw)
	}))

	payload := `{"email":"admin@company.com","password":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/admin", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != payload {
		t.Fatalf("body not restored for the handler, got %q", seen)
	}
}
