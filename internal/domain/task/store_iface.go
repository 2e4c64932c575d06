package task

import (
	"context"
	"time"
)

type StoreAPI interface {
	Insert(ctx context.Context, t *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	SaveStatus(ctx context.Context, id string, completion int, submissionTime *time.Time, updatedBy string, updatedAt time.Time) (*Task, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Task, error)
	ListAll(ctx context.Context) ([]Task, error)
	EmployeeInfo(ctx context.Context, id string) (AssigneeInfo, error)
}
