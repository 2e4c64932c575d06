package task

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `
    id, employee_id, title, description, COALESCE(remarks, ''),
    start_time, end_time, task_date, organization, priority, completion,
    submission_time, last_updated_time, COALESCE(last_updated_by::text, ''),
    created_at, updated_at`

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Insert(ctx context.Context, t *Task) error {
	return s.DB.QueryRow(ctx, `
    INSERT INTO tasks (
      employee_id, title, description, remarks, start_time, end_time,
      task_date, organization, priority, completion, last_updated_time, last_updated_by
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id, created_at, updated_at
  `, t.EmployeeID, t.Title, t.Description, nullIfEmpty(t.Remarks), t.StartTime, t.EndTime,
		t.TaskDate, t.Organization, t.Priority, t.Completion, t.LastUpdatedTime, nullIfEmpty(t.LastUpdatedBy),
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (s *Store) Get(ctx context.Context, id string) (*Task, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = $1", id)
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// SaveStatus writes the completion transition as a single statement; the
// submission time value is computed by the service and written as-is
// (last-writer-wins under concurrent updates).
func (s *Store) SaveStatus(ctx context.Context, id string, completion int, submissionTime *time.Time, updatedBy string, updatedAt time.Time) (*Task, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE tasks
    SET completion = $1, submission_time = $2, last_updated_time = $3, last_updated_by = $4, updated_at = now()
    WHERE id = $5
    RETURNING `+taskColumns, completion, submissionTime, updatedAt, updatedBy, id)
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]Task, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+taskColumns+" FROM tasks WHERE employee_id = $1 ORDER BY task_date DESC, created_at DESC", employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// ListAll resolves the owning employee and the last updater for display.
func (s *Store) ListAll(ctx context.Context) ([]Task, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT t.id, t.employee_id, t.title, t.description, COALESCE(t.remarks, ''),
           t.start_time, t.end_time, t.task_date, t.organization, t.priority, t.completion,
           t.submission_time, t.last_updated_time, COALESCE(t.last_updated_by::text, ''),
           t.created_at, t.updated_at,
           e.name, e.employee_id,
           COALESCE(u.id::text, ''), COALESCE(u.name, ''), COALESCE(u.employee_id, '')
    FROM tasks t
    JOIN employees e ON t.employee_id = e.id
    LEFT JOIN employees u ON t.last_updated_by = u.id
    ORDER BY t.task_date DESC, t.created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var t Task
		var ownerName, ownerEmpID string
		var updID, updName, updEmpID string
		if err := rows.Scan(
			&t.ID, &t.EmployeeID, &t.Title, &t.Description, &t.Remarks,
			&t.StartTime, &t.EndTime, &t.TaskDate, &t.Organization, &t.Priority, &t.Completion,
			&t.SubmissionTime, &t.LastUpdatedTime, &t.LastUpdatedBy,
			&t.CreatedAt, &t.UpdatedAt,
			&ownerName, &ownerEmpID,
			&updID, &updName, &updEmpID,
		); err != nil {
			return nil, err
		}
		t.Status = StatusLabel(t.Completion)
		t.Employee = &PersonRef{ID: t.EmployeeID, Name: ownerName, EmployeeID: ownerEmpID}
		if updID != "" {
			t.UpdatedBy = &PersonRef{ID: updID, Name: updName, EmployeeID: updEmpID}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) EmployeeInfo(ctx context.Context, id string) (AssigneeInfo, error) {
	var out AssigneeInfo
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, name, COALESCE(email, '')
    FROM employees
    WHERE id = $1 AND is_deleted = false
  `, id).Scan(&out.ID, &out.EmployeeID, &out.Name, &out.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return AssigneeInfo{}, ErrInvalidEmployee
	}
	return out, err
}

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	if err := row.Scan(
		&t.ID, &t.EmployeeID, &t.Title, &t.Description, &t.Remarks,
		&t.StartTime, &t.EndTime, &t.TaskDate, &t.Organization, &t.Priority, &t.Completion,
		&t.SubmissionTime, &t.LastUpdatedTime, &t.LastUpdatedBy,
		&t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.Status = StatusLabel(t.Completion)
	return &t, nil
}

func collectTasks(rows pgx.Rows) ([]Task, error) {
	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
