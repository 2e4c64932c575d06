package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"empdash/internal/domain/directory"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// Service dispatches employee-facing mail. Delivery is fire-and-forget:
// failures are logged and swallowed, never surfaced to the caller.
type Service struct {
	Mailer Mailer
	From   string
}

func New(mailer Mailer, from string) *Service {
	return &Service{Mailer: mailer, From: from}
}

func (s *Service) SendWelcome(ctx context.Context, emp *directory.Employee) {
	if s == nil || s.Mailer == nil || emp == nil {
		return
	}
	body := fmt.Sprintf("Hello %s, you are registered as %s. Your Employee ID is %s.", emp.Name, emp.Role, emp.EmployeeID)
	if err := s.Mailer.Send(ctx, s.From, emp.Email, "Welcome to Employee Dashboard", body); err != nil {
		slog.Warn("welcome email send failed", "employeeId", emp.EmployeeID, "err", err)
	}
}

func (s *Service) SendTaskAssigned(ctx context.Context, email, name, title string) {
	if s == nil || s.Mailer == nil {
		return
	}
	body := fmt.Sprintf("Hello %s, you have a new task: %s", name, title)
	if err := s.Mailer.Send(ctx, s.From, email, "New Task Assigned", body); err != nil {
		slog.Warn("task email send failed", "err", err)
	}
}
