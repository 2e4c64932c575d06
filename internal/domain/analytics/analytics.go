package analytics

import (
	"context"
	"math"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Stats struct {
	TotalEmployees    int `json:"totalEmployees"`
	TotalTasks        int `json:"totalTasks"`
	CompletedTasks    int `json:"completedTasks"`
	PendingTasks      int `json:"pendingTasks"`
	InProgressTasks   int `json:"inProgressTasks"`
	AverageCompletion int `json:"averageCompletion"`
}

// TaskTotals are the raw aggregates the dashboard derives from.
type TaskTotals struct {
	Total         int
	Completed     int
	Pending       int
	InProgress    int
	CompletionSum int
}

type StoreAPI interface {
	ActiveEmployeeCount(ctx context.Context) (int, error)
	TaskTotals(ctx context.Context) (TaskTotals, error)
}

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	employees, err := s.Store.ActiveEmployeeCount(ctx)
	if err != nil {
		return Stats{}, err
	}
	totals, err := s.Store.TaskTotals(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		TotalEmployees:    employees,
		TotalTasks:        totals.Total,
		CompletedTasks:    totals.Completed,
		PendingTasks:      totals.Pending,
		InProgressTasks:   totals.InProgress,
		AverageCompletion: averageCompletion(totals.CompletionSum, totals.Total),
	}, nil
}

// averageCompletion is round(mean), and 0 with no tasks.
func averageCompletion(sum, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ActiveEmployeeCount(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE is_deleted = false").Scan(&count)
	return count, err
}

func (s *Store) TaskTotals(ctx context.Context) (TaskTotals, error) {
	var out TaskTotals
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1),
           COUNT(1) FILTER (WHERE completion = 100),
           COUNT(1) FILTER (WHERE completion = 0),
           COUNT(1) FILTER (WHERE completion > 0 AND completion < 100),
           COALESCE(SUM(completion), 0)
    FROM tasks
  `).Scan(&out.Total, &out.Completed, &out.Pending, &out.InProgress, &out.CompletionSum)
	return out, err
}
