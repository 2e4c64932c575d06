package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) FindAdminByEmail(ctx context.Context, email string) (Admin, error) {
	return s.scanAdmin(ctx, "email = $1", email)
}

func (s *Store) GetAdmin(ctx context.Context, id string) (Admin, error) {
	return s.scanAdmin(ctx, "id = $1", id)
}

func (s *Store) scanAdmin(ctx context.Context, where string, arg any) (Admin, error) {
	var out Admin
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, password_hash, name, is_first_login, last_login, password_changed_at, mfa_enabled, mfa_secret_enc
    FROM admins
    WHERE `+where, arg).Scan(
		&out.ID, &out.Email, &out.PasswordHash, &out.Name, &out.IsFirstLogin,
		&out.LastLogin, &out.PasswordChangedAt, &out.MFAEnabled, &out.MFASecretEnc,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Admin{}, ErrNotFound
	}
	return out, err
}

func (s *Store) UpdateAdminLastLogin(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "UPDATE admins SET last_login = now(), updated_at = now() WHERE id = $1", id)
	return err
}

func (s *Store) UpdateAdminPassword(ctx context.Context, id, hash string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE admins
    SET password_hash = $1, is_first_login = false, password_changed_at = now(), updated_at = now()
    WHERE id = $2
  `, hash, id)
	return err
}

func (s *Store) SetAdminMFASecret(ctx context.Context, id string, secretEnc []byte) error {
	_, err := s.DB.Exec(ctx, "UPDATE admins SET mfa_secret_enc = $1, mfa_enabled = false, updated_at = now() WHERE id = $2", secretEnc, id)
	return err
}

func (s *Store) SetAdminMFAEnabled(ctx context.Context, id string, enabled bool) error {
	_, err := s.DB.Exec(ctx, "UPDATE admins SET mfa_enabled = $1, updated_at = now() WHERE id = $2", enabled, id)
	return err
}

func (s *Store) FindEmployeeByLoginID(ctx context.Context, employeeID string) (EmployeeCredentials, error) {
	var out EmployeeCredentials
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, COALESCE(email, ''), role, password_hash
    FROM employees
    WHERE employee_id = $1 AND is_deleted = false
  `, employeeID).Scan(&out.ID, &out.EmployeeID, &out.Email, &out.Role, &out.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return EmployeeCredentials{}, ErrNotFound
	}
	return out, err
}
