package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const employeeColumns = `
    id, employee_id, name, COALESCE(email, ''), password_hash, department, role,
    COALESCE(image, ''), is_deleted, date_of_birth, date_of_joining,
    COALESCE(gender, ''), COALESCE(contact_number, ''), COALESCE(designation, ''),
    COALESCE(location, ''), created_at, updated_at`

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Insert(ctx context.Context, emp *Employee) error {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (
      employee_id, name, email, password_hash, department, role, image,
      date_of_birth, date_of_joining, gender, contact_number, designation, location
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    RETURNING id, created_at, updated_at
  `, emp.EmployeeID, emp.Name, emp.Email, emp.PasswordHash, emp.Department, emp.Role,
		nullIfEmpty(emp.Image), emp.DateOfBirth, emp.DateOfJoining, emp.Gender,
		emp.ContactNumber, emp.Designation, emp.Location,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateEmail
	}
	return err
}

func (s *Store) EmployeeIDExists(ctx context.Context, employeeID string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE employee_id = $1", employeeID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) List(ctx context.Context, search string, limit, offset int) ([]Employee, int, error) {
	pattern := "%" + search + "%"
	where := `
    FROM employees
    WHERE is_deleted = false
      AND (name ILIKE $1 OR employee_id ILIKE $1 OR role ILIKE $1 OR department ILIKE $1)`

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1)"+where, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, "SELECT "+employeeColumns+where+" ORDER BY created_at DESC LIMIT $2 OFFSET $3", pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var emp Employee
		if err := scanEmployee(rows, &emp); err != nil {
			return nil, 0, err
		}
		out = append(out, emp)
	}
	return out, total, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (*Employee, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id)
	var emp Employee
	if err := scanEmployee(row, &emp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &emp, nil
}

// Update applies only the fields present in the input. passwordHash, when
// non-empty, replaces the stored hash; the caller hashes before reaching here.
func (s *Store) Update(ctx context.Context, id string, in UpdateInput, passwordHash string) (*Employee, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if in.Name != nil {
		addSet("name", *in.Name)
	}
	if in.Email != nil {
		addSet("email", *in.Email)
	}
	if passwordHash != "" {
		addSet("password_hash", passwordHash)
	}
	if in.Department != nil {
		addSet("department", *in.Department)
	}
	if in.Role != nil {
		addSet("role", *in.Role)
	}
	if in.Image != nil {
		addSet("image", nullIfEmpty(*in.Image))
	}
	if in.DateOfBirth != nil {
		addSet("date_of_birth", *in.DateOfBirth)
	}
	if in.DateOfJoining != nil {
		addSet("date_of_joining", *in.DateOfJoining)
	}
	if in.Gender != nil {
		addSet("gender", *in.Gender)
	}
	if in.ContactNumber != nil {
		addSet("contact_number", *in.ContactNumber)
	}
	if in.Designation != nil {
		addSet("designation", *in.Designation)
	}
	if in.Location != nil {
		addSet("location", *in.Location)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d RETURNING "+employeeColumns,
		joinSets(sets), len(args))

	row := s.DB.QueryRow(ctx, query, args...)
	var emp Employee
	if err := scanEmployee(row, &emp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (s *Store) SoftDelete(ctx context.Context, id string) (string, error) {
	var employeeID string
	err := s.DB.QueryRow(ctx, `
    UPDATE employees SET is_deleted = true, updated_at = now()
    WHERE id = $1
    RETURNING employee_id
  `, id).Scan(&employeeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return employeeID, err
}

func scanEmployee(row pgx.Row, emp *Employee) error {
	return row.Scan(
		&emp.ID, &emp.EmployeeID, &emp.Name, &emp.Email, &emp.PasswordHash,
		&emp.Department, &emp.Role, &emp.Image, &emp.IsDeleted,
		&emp.DateOfBirth, &emp.DateOfJoining, &emp.Gender, &emp.ContactNumber,
		&emp.Designation, &emp.Location, &emp.CreatedAt, &emp.UpdatedAt,
	)
}

func joinSets(sets []string) string {
	out := sets[0]
	for _, s := range sets[1:] {
		out += ", " + s
	}
	return out
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
