package directory

import (
	"context"
	"fmt"
	"log/slog"

	"empdash/internal/domain/auth"
)

type Auditor interface {
	Record(ctx context.Context, actorID, action string) error
}

type Notifier interface {
	SendWelcome(ctx context.Context, emp *Employee)
}

type Service struct {
	Store      StoreAPI
	Audit      Auditor
	Notify     Notifier
	BcryptCost int
}

func NewService(store StoreAPI, audit Auditor, notify Notifier, bcryptCost int) *Service {
	return &Service{Store: store, Audit: audit, Notify: notify, BcryptCost: bcryptCost}
}

// Create persists a new employee with a system-generated employee ID. Clients
// never supply or alter the ID.
func (s *Service) Create(ctx context.Context, adminID string, in CreateInput) (*Employee, error) {
	employeeID, err := GenerateEmployeeID(ctx, s.Store.EmployeeIDExists)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPasswordCost(in.Password, s.BcryptCost)
	if err != nil {
		return nil, err
	}

	role := Canonical(in.Role, Roles)
	if role == "" {
		role = auth.RoleEmployee
	}
	emp := &Employee{
		EmployeeID:    employeeID,
		Name:          in.Name,
		Email:         in.Email,
		PasswordHash:  hash,
		Department:    Canonical(in.Department, Departments),
		Role:          role,
		Image:         in.Image,
		DateOfBirth:   &in.DateOfBirth,
		DateOfJoining: &in.DateOfJoining,
		Gender:        Canonical(in.Gender, Genders),
		ContactNumber: in.ContactNumber,
		Designation:   in.Designation,
		Location:      in.Location,
	}
	if err := s.Store.Insert(ctx, emp); err != nil {
		return nil, err
	}

	s.audit(ctx, adminID, fmt.Sprintf("Created employee %s", emp.EmployeeID))
	if s.Notify != nil {
		s.Notify.SendWelcome(ctx, emp)
	}
	return emp, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) (ListResult, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 10
	}

	employees, total, err := s.Store.List(ctx, q.Search, limit, (page-1)*limit)
	if err != nil {
		return ListResult{}, err
	}
	if employees == nil {
		employees = []Employee{}
	}

	totalPages := total / limit
	if total%limit > 0 {
		totalPages++
	}
	return ListResult{Employees: employees, Total: total, Page: page, TotalPages: totalPages}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Employee, error) {
	return s.Store.Get(ctx, id)
}

// Update applies a field-restricted profile update. A password in the payload
// is re-hashed here and never stored or returned in clear form.
func (s *Service) Update(ctx context.Context, actorID, id string, in UpdateInput) (*Employee, error) {
	passwordHash := ""
	if in.Password != nil && *in.Password != "" {
		hash, err := auth.HashPasswordCost(*in.Password, s.BcryptCost)
		if err != nil {
			return nil, err
		}
		passwordHash = hash
	}

	canonicalize(in.Department, Departments)
	canonicalize(in.Gender, Genders)
	canonicalize(in.Role, Roles)

	emp, err := s.Store.Update(ctx, id, in, passwordHash)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, actorID, fmt.Sprintf("Updated employee %s", emp.EmployeeID))
	return emp, nil
}

// Delete soft-deletes: the record stays in storage but disappears from
// listings and can no longer authenticate.
func (s *Service) Delete(ctx context.Context, adminID, id string) error {
	employeeID, err := s.Store.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	s.audit(ctx, adminID, fmt.Sprintf("Deleted employee %s", employeeID))
	return nil
}

func canonicalize(value *string, allowed []string) {
	if value != nil {
		*value = Canonical(*value, allowed)
	}
}

func (s *Service) audit(ctx context.Context, actorID, action string) {
	if s.Audit == nil {
		return
	}
	if err := s.Audit.Record(ctx, actorID, action); err != nil {
		slog.Warn("audit write failed", "action", action, "err", err)
	}
}
