package auth

import (
	"context"
	"time"
)

type Admin struct {
	ID                string
	Email             string
	PasswordHash      string
	Name              string
	IsFirstLogin      bool
	LastLogin         *time.Time
	PasswordChangedAt *time.Time
	MFAEnabled        bool
	MFASecretEnc      []byte
}

// EmployeeCredentials is the slice of an employee record the login path needs.
type EmployeeCredentials struct {
	ID           string
	EmployeeID   string
	Email        string
	Role         string
	PasswordHash string
}

type StoreAPI interface {
	FindAdminByEmail(ctx context.Context, email string) (Admin, error)
	GetAdmin(ctx context.Context, id string) (Admin, error)
	UpdateAdminLastLogin(ctx context.Context, id string) error
	UpdateAdminPassword(ctx context.Context, id, hash string) error
	SetAdminMFASecret(ctx context.Context, id string, secretEnc []byte) error
	SetAdminMFAEnabled(ctx context.Context, id string, enabled bool) error
	FindEmployeeByLoginID(ctx context.Context, employeeID string) (EmployeeCredentials, error)
}
