package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"empdash/internal/domain/auth"
)

type Auditor interface {
	Record(ctx context.Context, actorID, action string) error
}

type Notifier interface {
	SendTaskAssigned(ctx context.Context, email, name, title string)
}

type Meter interface {
	TaskCompleted()
}

type Service struct {
	Store  StoreAPI
	Audit  Auditor
	Notify Notifier

	// Metrics may be left nil.
	Metrics Meter
}

func NewService(store StoreAPI, audit Auditor, notify Notifier) *Service {
	return &Service{Store: store, Audit: audit, Notify: notify}
}

// Assign creates a task for an existing, non-deleted employee. The creation
// write stamps both lastUpdatedTime and lastUpdatedBy with the assigning admin.
func (s *Service) Assign(ctx context.Context, adminID string, in AssignInput) (*Task, error) {
	assignee, err := s.Store.EmployeeInfo(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	t := &Task{
		EmployeeID:      assignee.ID,
		Title:           in.Title,
		Description:     in.Description,
		Remarks:         in.Remarks,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		TaskDate:        in.TaskDate,
		Organization:    in.Organization,
		Priority:        priority,
		Completion:      in.Completion,
		LastUpdatedTime: time.Now(),
		LastUpdatedBy:   adminID,
	}
	if err := s.Store.Insert(ctx, t); err != nil {
		return nil, err
	}
	t.Status = StatusLabel(t.Completion)

	s.audit(ctx, adminID, fmt.Sprintf("Assigned task %q to %s", t.Title, assignee.EmployeeID))
	if s.Notify != nil {
		s.Notify.SendTaskAssigned(ctx, assignee.Email, assignee.Name, t.Title)
	}
	return t, nil
}

// ListForEmployee returns the target's tasks. Employees may only read their
// own; admins may read anyone's.
func (s *Service) ListForEmployee(ctx context.Context, actor auth.UserContext, targetEmployeeID string) ([]Task, error) {
	if actor.Role == auth.RoleEmployee && actor.UserID != targetEmployeeID {
		return nil, ErrForbidden
	}
	return s.Store.ListByEmployee(ctx, targetEmployeeID)
}

func (s *Service) ListMine(ctx context.Context, employeeID string) ([]Task, error) {
	return s.Store.ListByEmployee(ctx, employeeID)
}

func (s *Service) ListAll(ctx context.Context) ([]Task, error) {
	return s.Store.ListAll(ctx)
}

// UpdateStatus applies a completion write. The submission time is set exactly
// when completion crosses into 100 from below and cleared exactly when it
// leaves 100; any other transition leaves it untouched. Both timestamps and
// the acting identity are stamped unconditionally.
func (s *Service) UpdateStatus(ctx context.Context, actor auth.UserContext, taskID string, completion int) (*Task, error) {
	current, err := s.Store.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if actor.Role == auth.RoleEmployee && current.EmployeeID != actor.UserID {
		return nil, ErrForbidden
	}

	now := time.Now()
	submission := nextSubmissionTime(current.Completion, completion, current.SubmissionTime, now)

	updated, err := s.Store.SaveStatus(ctx, taskID, completion, submission, actor.UserID, now)
	if err != nil {
		return nil, err
	}

	suffix := ""
	if completion == 100 {
		suffix = " (Completed)"
		if current.Completion < 100 && s.Metrics != nil {
			s.Metrics.TaskCompleted()
		}
	}
	s.audit(ctx, actor.UserID, fmt.Sprintf("Updated task %s status from %d%% to %d%%%s", taskID, current.Completion, completion, suffix))
	return updated, nil
}

// nextSubmissionTime implements the 100% boundary rule.
func nextSubmissionTime(previous, next int, current *time.Time, now time.Time) *time.Time {
	if next == 100 && previous < 100 {
		return &now
	}
	if next < 100 && previous == 100 {
		return nil
	}
	return current
}

func (s *Service) audit(ctx context.Context, actorID, action string) {
	if s.Audit == nil {
		return
	}
	if err := s.Audit.Record(ctx, actorID, action); err != nil {
		slog.Warn("audit write failed", "action", action, "err", err)
	}
}
