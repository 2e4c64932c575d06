package directory

import "context"

type StoreAPI interface {
	Insert(ctx context.Context, emp *Employee) error
	EmployeeIDExists(ctx context.Context, employeeID string) (bool, error)
	List(ctx context.Context, search string, limit, offset int) ([]Employee, int, error)
	Get(ctx context.Context, id string) (*Employee, error)
	Update(ctx context.Context, id string, in UpdateInput, passwordHash string) (*Employee, error)
	SoftDelete(ctx context.Context, id string) (string, error)
}
