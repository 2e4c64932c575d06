package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"empdash/internal/domain/auth"
	"empdash/internal/platform/seclog"
	"empdash/internal/transport/http/api"
)

func withIdentity(r *http.Request, user auth.UserContext) *http.Request {
	ctx := context.WithValue(r.Context(), ctxKeyUser, user)
	return r.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, body io.Reader) api.Envelope {
	t.Helper()
	var envelope api.Envelope
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return envelope
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	handler := RequireRole(seclog.New(io.Discard), auth.RoleAdmin)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec.Body)
	if envelope.Success || envelope.Error == nil || envelope.Error.Type != api.TypeAuthentication {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestRequireRoleWrongRole(t *testing.T) {
	handler := RequireRole(seclog.New(io.Discard), auth.RoleAdmin)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/tasks", nil), auth.UserContext{UserID: "e1", Role: auth.RoleEmployee})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec.Body)
	if envelope.Error == nil || envelope.Error.Type != api.TypeAuthorization {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestRequireRoleAllows(t *testing.T) {
	called := false
	handler := RequireRole(seclog.New(io.Discard), auth.RoleAdmin, auth.RoleEmployee)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/tasks", nil), auth.UserContext{UserID: "a1", Role: auth.RoleAdmin})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("expected handler to run")
	}
}
