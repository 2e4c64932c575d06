package middleware

import (
	"net/http"

	"empdash/internal/platform/seclog"
	"empdash/internal/transport/http/api"
)

// RequireRole gates a route to the given roles: 401 without an identity,
// 403 with the wrong one. Ownership checks are per-operation and live in the
// services.
func RequireRole(sec *seclog.Logger, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, api.TypeAuthentication, "authentication required", GetRequestID(r.Context()))
				return
			}
			if _, ok := allowed[user.Role]; !ok {
				sec.AccessDenied(user.UserID, user.Role, r.URL.Path, "role not permitted", ClientIP(r), GetRequestID(r.Context()))
				api.Fail(w, http.StatusForbidden, api.TypeAuthorization, "insufficient permissions", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
