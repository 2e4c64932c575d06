package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"empdash/internal/platform/seclog"
	"empdash/internal/transport/http/api"
)

type RateLimitKeyFunc func(r *http.Request) string

type rateBucket struct {
	count int
	reset time.Time
}

type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	keyFn   RateLimitKeyFunc
	sec     *seclog.Logger
	clients map[string]*rateBucket
}

func newRateLimiter(limit int, window time.Duration, keyFn RateLimitKeyFunc, sec *seclog.Logger) *rateLimiter {
	if keyFn == nil {
		keyFn = ActorOrIPKey
	}
	return &rateLimiter{
		limit:   limit,
		window:  window,
		keyFn:   keyFn,
		sec:     sec,
		clients: map[string]*rateBucket{},
	}
}

// RateLimit admits up to limit requests per key per fixed window.
func RateLimit(limit int, window time.Duration, keyFn RateLimitKeyFunc, sec *seclog.Logger) func(http.Handler) http.Handler {
	rl := newRateLimiter(limit, window, keyFn, sec)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.enforce(w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoginRateLimit throttles credential submission twice over: per client IP and
// per submitted identifier, so neither a single host nor a single targeted
// account can be hammered.
func LoginRateLimit(limit int, window time.Duration, identifierField string, sec *seclog.Logger) func(http.Handler) http.Handler {
	byIP := newRateLimiter(limit, window, IPKey, sec)
	byIdentifier := newRateLimiter(limit, window, BodyFieldOrIPKey(identifierField), sec)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !byIP.enforce(w, r) {
				return
			}
			if !byIdentifier.enforce(w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func ActorOrIPKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	return IPKey(r)
}

func IPKey(r *http.Request) string {
	return "ip:" + ClientIP(r)
}

func BodyFieldOrIPKey(field string) RateLimitKeyFunc {
	normalized := strings.TrimSpace(field)
	return func(r *http.Request) string {
		value := extractJSONField(r, normalized)
		if value == "" {
			return IPKey(r)
		}
		return field + ":" + strings.ToLower(value)
	}
}

func (rl *rateLimiter) enforce(w http.ResponseWriter, r *http.Request) bool {
	if rl.limit <= 0 {
		return true
	}

	key := rl.keyFn(r)
	now := time.Now()

	rl.mu.Lock()
	bucket, ok := rl.clients[key]
	if !ok || now.After(bucket.reset) {
		bucket = &rateBucket{count: 0, reset: now.Add(rl.window)}
		rl.clients[key] = bucket
	}
	bucket.count++
	remaining := rl.limit - bucket.count
	resetIn := durationSeconds(bucket.reset.Sub(now))
	overLimit := bucket.count > rl.limit
	rl.mu.Unlock()

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(remaining, 0)))
	w.Header().Set("X-RateLimit-Reset", strconv.Itoa(resetIn))

	if overLimit {
		w.Header().Set("Retry-After", strconv.Itoa(max(resetIn, 1)))
		rl.sec.RateLimited(key, r.URL.Path, ClientIP(r))
		api.Fail(w, http.StatusTooManyRequests, api.TypeRateLimited, "too many requests", GetRequestID(r.Context()))
		return false
	}
	return true
}

func durationSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	seconds := int(d.Seconds())
	if seconds <= 0 {
		return 1
	}
	return seconds
}

// extractJSONField peeks a string field out of a JSON body, restoring the body
// for downstream handlers.
func extractJSONField(r *http.Request, field string) string {
	if r == nil || r.Body == nil || field == "" {
		return ""
	}
	contentType := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	if !strings.Contains(contentType, "application/json") {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64*1024))
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if len(raw) == 0 {
		return ""
	}
	payload := map[string]any{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	value, _ := payload[field].(string)
	return strings.TrimSpace(value)
}
