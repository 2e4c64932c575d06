package seclog

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the security event channel: authentication attempts, authorization
// denials and rate-limit trips land here, separate from the application log so
// they can be shipped to audit/intrusion-detection tooling on their own.
type Logger struct {
	log *slog.Logger
}

func New(w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	base := slog.New(slog.NewJSONHandler(w, nil)).With("channel", "security")
	return &Logger{log: base}
}

func (l *Logger) AuthAttempt(event, actor, outcome, reason, ip, requestID string) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Info("auth attempt",
		"event", event,
		"actor", actor,
		"outcome", outcome,
		"reason", reason,
		"ip", ip,
		"requestId", requestID,
	)
}

func (l *Logger) AccessDenied(actor, role, path, reason, ip, requestID string) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Warn("access denied",
		"actor", actor,
		"role", role,
		"path", path,
		"reason", reason,
		"ip", ip,
		"requestId", requestID,
	)
}

func (l *Logger) RateLimited(key, path, ip string) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Warn("rate limited",
		"key", key,
		"path", path,
		"ip", ip,
	)
}
