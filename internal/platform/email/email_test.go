package email

import (
	"context"
	"strings"
	"testing"

	"empdash/internal/platform/config"
)

func TestNewReturnsNoopWhenDisabled(t *testing.T) {
	for _, cfg := range []config.Config{
		{EmailEnabled: false, SMTPHost: "mail.example.com"},
		{EmailEnabled: true, SMTPHost: ""},
	} {
		mailer := New(cfg)
		if _, ok := mailer.(noopMailer); !ok {
			t.Fatalf("expected the no-op mailer for %+v, got %T", cfg, mailer)
		}
		if err := mailer.Send(context.Background(), "hr@example.com", "e@example.com", "Welcome", "hi"); err != nil {
			t.Fatalf("noop send error: %v", err)
		}
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("hr@example.com", "e@example.com", "Welcome aboard", "Your account is ready."))

	for _, want := range []string{
		"From: hr@example.com\r\n",
		"To: e@example.com\r\n",
		"Subject: Welcome aboard\r\n",
		"Date: ",
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
	if !strings.HasSuffix(msg, "\r\n\r\nYour account is ready.") {
		t.Fatalf("body must follow a blank line:\n%s", msg)
	}
}
