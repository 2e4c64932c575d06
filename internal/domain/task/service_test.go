package task

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"empdash/internal/domain/auth"
)

type fakeStore struct {
	tasks     map[string]*Task
	assignees map[string]AssigneeInfo

	savedCompletion int
	savedSubmission *time.Time
	savedBy         string
	savedAt         time.Time
	saveCalls       int
}

func newFakeStore() *fakeStore {
	return &fakeStore{tasks: map[string]*Task{}, assignees: map[string]AssigneeInfo{}}
}

func (f *fakeStore) Insert(_ context.Context, t *Task) error {
	t.ID = "t1"
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	f.tasks[t.ID] = t
	return nil
}

func (f *fakeStore) Get(_ context.Context, id string) (*Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeStore) SaveStatus(_ context.Context, id string, completion int, submissionTime *time.Time, updatedBy string, updatedAt time.Time) (*Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	f.saveCalls++
	f.savedCompletion = completion
	f.savedSubmission = submissionTime
	f.savedBy = updatedBy
	f.savedAt = updatedAt

	t.Completion = completion
	t.SubmissionTime = submissionTime
	t.LastUpdatedBy = updatedBy
	t.LastUpdatedTime = updatedAt
	t.Status = StatusLabel(completion)
	copied := *t
	return &copied, nil
}

func (f *fakeStore) ListByEmployee(_ context.Context, employeeID string) ([]Task, error) {
	var out []Task
	for _, t := range f.tasks {
		if t.EmployeeID == employeeID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAll(context.Context) ([]Task, error) {
	var out []Task
	for _, t := range f.tasks {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeStore) EmployeeInfo(_ context.Context, id string) (AssigneeInfo, error) {
	info, ok := f.assignees[id]
	if !ok {
		return AssigneeInfo{}, ErrInvalidEmployee
	}
	return info, nil
}

type recordingAuditor struct {
	actions []string
	actors  []string
}

func (r *recordingAuditor) Record(_ context.Context, actorID, action string) error {
	r.actors = append(r.actors, actorID)
	r.actions = append(r.actions, action)
	return nil
}

type recordingNotifier struct {
	notified []string
}

func (r *recordingNotifier) SendTaskAssigned(_ context.Context, email, name, title string) {
	r.notified = append(r.notified, email)
}

func seedTask(store *fakeStore, completion int, submission *time.Time) *Task {
	t := &Task{
		ID:         "t1",
		EmployeeID: "e1",
		Title:      "Close the quarter",
		Completion: completion,
	}
	t.SubmissionTime = submission
	store.tasks[t.ID] = t
	return t
}

func employeeActor(id string) auth.UserContext {
	return auth.UserContext{UserID: id, Role: auth.RoleEmployee}
}

func adminActor(id string) auth.UserContext {
	return auth.UserContext{UserID: id, Role: auth.RoleAdmin}
}

func TestAssignDefaultsAndSideEffects(t *testing.T) {
	store := newFakeStore()
	store.assignees["e1"] = AssigneeInfo{ID: "e1", EmployeeID: "EMPAB1234", Name: "Jordan", Email: "jordan@example.com"}
	auditor := &recordingAuditor{}
	notifier := &recordingNotifier{}
	svc := NewService(store, auditor, notifier)

	created, err := svc.Assign(context.Background(), "admin-1", AssignInput{
		EmployeeID:   "e1",
		Title:        "Close the quarter",
		Description:  "Reconcile the books",
		StartTime:    "09:30",
		EndTime:      "17:00",
		TaskDate:     time.Now(),
		Organization: "Finance",
	})
	if err != nil {
		t.Fatalf("assign error: %v", err)
	}

	if created.Priority != PriorityMedium {
		t.Fatalf("expected default priority, got %q", created.Priority)
	}
	if created.Completion != 0 || created.Status != StatusPending {
		t.Fatalf("expected pending zero-completion task, got %d/%q", created.Completion, created.Status)
	}
	if created.LastUpdatedBy != "admin-1" {
		t.Fatalf("creation must stamp the assigning admin, got %q", created.LastUpdatedBy)
	}
	if created.LastUpdatedTime.IsZero() {
		t.Fatal("creation must stamp lastUpdatedTime")
	}
	if created.SubmissionTime != nil {
		t.Fatal("new tasks must not carry a submission time")
	}

	if len(auditor.actions) != 1 || !strings.Contains(auditor.actions[0], "EMPAB1234") {
		t.Fatalf("expected audit entry naming the assignee, got %v", auditor.actions)
	}
	if len(notifier.notified) != 1 || notifier.notified[0] != "jordan@example.com" {
		t.Fatalf("expected assignment notification, got %v", notifier.notified)
	}
}

func TestAssignUnknownEmployee(t *testing.T) {
	svc := NewService(newFakeStore(), nil, nil)

	_, err := svc.Assign(context.Background(), "admin-1", AssignInput{EmployeeID: "missing", Title: "x"})
	if !errors.Is(err, ErrInvalidEmployee) {
		t.Fatalf("expected ErrInvalidEmployee, got %v", err)
	}
}

func TestUpdateStatusSetsSubmissionTimeAtHundred(t *testing.T) {
	store := newFakeStore()
	seedTask(store, 60, nil)
	svc := NewService(store, nil, nil)

	updated, err := svc.UpdateStatus(context.Background(), employeeActor("e1"), "t1", 100)
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.SubmissionTime == nil {
		t.Fatal("expected submission time on reaching 100")
	}
	if updated.Status != StatusCompleted {
		t.Fatalf("expected Completed, got %q", updated.Status)
	}
	if store.savedBy != "e1" || store.savedAt.IsZero() {
		t.Fatalf("expected actor and time stamped, got %q/%v", store.savedBy, store.savedAt)
	}
}

func TestUpdateStatusClearsSubmissionTimeLeavingHundred(t *testing.T) {
	store := newFakeStore()
	at := time.Now().Add(-time.Hour)
	seedTask(store, 100, &at)
	svc := NewService(store, nil, nil)

	updated, err := svc.UpdateStatus(context.Background(), employeeActor("e1"), "t1", 80)
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.SubmissionTime != nil {
		t.Fatal("expected submission time cleared on leaving 100")
	}
	if updated.Status != StatusInProgress {
		t.Fatalf("expected In Progress, got %q", updated.Status)
	}
}

func TestUpdateStatusLeavesSubmissionTimeOtherwise(t *testing.T) {
	store := newFakeStore()
	at := time.Now().Add(-time.Hour)
	seedTask(store, 100, &at)
	svc := NewService(store, nil, nil)

	// 100 -> 100 keeps the original submission time.
	updated, err := svc.UpdateStatus(context.Background(), employeeActor("e1"), "t1", 100)
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.SubmissionTime == nil || !updated.SubmissionTime.Equal(at) {
		t.Fatalf("submission time must be untouched, got %v", updated.SubmissionTime)
	}

	// 40 -> 70 keeps it nil.
	store2 := newFakeStore()
	seedTask(store2, 40, nil)
	svc2 := NewService(store2, nil, nil)
	updated, err = svc2.UpdateStatus(context.Background(), employeeActor("e1"), "t1", 70)
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.SubmissionTime != nil {
		t.Fatalf("submission time must stay nil below 100, got %v", updated.SubmissionTime)
	}
}

type recordingMeter struct {
	completions int
}

func (m *recordingMeter) TaskCompleted() {
	m.completions++
}

func TestUpdateStatusCountsCompletions(t *testing.T) {
	store := newFakeStore()
	seedTask(store, 60, nil)
	meter := &recordingMeter{}
	svc := NewService(store, nil, nil)
	svc.Metrics = meter

	if _, err := svc.UpdateStatus(context.Background(), employeeActor("e1"), "t1", 100); err != nil {
		t.Fatalf("update error: %v", err)
	}
	if meter.completions != 1 {
		t.Fatalf("expected one counted completion, got %d", meter.completions)
	}

	// Re-saving an already completed task is not a new completion.
	if _, err := svc.UpdateStatus(context.Background(), employeeActor("e1"), "t1", 100); err != nil {
		t.Fatalf("update error: %v", err)
	}
	if meter.completions != 1 {
		t.Fatalf("expected the count unchanged at 100 -> 100, got %d", meter.completions)
	}
}

func TestUpdateStatusOwnership(t *testing.T) {
	store := newFakeStore()
	seedTask(store, 10, nil)
	svc := NewService(store, nil, nil)

	if _, err := svc.UpdateStatus(context.Background(), employeeActor("e2"), "t1", 50); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if store.saveCalls != 0 {
		t.Fatal("forbidden update must not reach the store")
	}

	if _, err := svc.UpdateStatus(context.Background(), employeeActor("e1"), "missing", 50); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatusAuditsBeforeAfter(t *testing.T) {
	store := newFakeStore()
	seedTask(store, 25, nil)
	auditor := &recordingAuditor{}
	svc := NewService(store, auditor, nil)

	if _, err := svc.UpdateStatus(context.Background(), employeeActor("e1"), "t1", 100); err != nil {
		t.Fatalf("update error: %v", err)
	}
	if len(auditor.actions) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(auditor.actions))
	}
	entry := auditor.actions[0]
	if !strings.Contains(entry, "25%") || !strings.Contains(entry, "100%") || !strings.Contains(entry, "Completed") {
		t.Fatalf("audit entry must describe the transition, got %q", entry)
	}
	if auditor.actors[0] != "e1" {
		t.Fatalf("expected acting employee as auditor actor, got %q", auditor.actors[0])
	}
}

func TestListForEmployeeOwnership(t *testing.T) {
	store := newFakeStore()
	seedTask(store, 10, nil)
	svc := NewService(store, nil, nil)

	if _, err := svc.ListForEmployee(context.Background(), employeeActor("e2"), "e1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	tasks, err := svc.ListForEmployee(context.Background(), employeeActor("e1"), "e1")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected one task, got %d", len(tasks))
	}

	// Admin bypasses the ownership check for reads.
	if _, err := svc.ListForEmployee(context.Background(), adminActor("a1"), "e1"); err != nil {
		t.Fatalf("admin read error: %v", err)
	}
}

func TestStatusLabel(t *testing.T) {
	cases := []struct {
		completion int
		want       string
	}{
		{0, StatusPending},
		{1, StatusInProgress},
		{99, StatusInProgress},
		{100, StatusCompleted},
	}
	for _, tc := range cases {
		if got := StatusLabel(tc.completion); got != tc.want {
			t.Fatalf("StatusLabel(%d) = %q, want %q", tc.completion, got, tc.want)
		}
	}
}
