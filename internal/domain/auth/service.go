package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	cryptoutil "empdash/internal/platform/crypto"
)

type Service struct {
	Store      StoreAPI
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int
	Crypto     *cryptoutil.Service
}

func NewService(store StoreAPI, secret string, ttl time.Duration, bcryptCost int, crypto *cryptoutil.Service) *Service {
	return &Service{Store: store, Secret: secret, TokenTTL: ttl, BcryptCost: bcryptCost, Crypto: crypto}
}

type AdminLogin struct {
	Token        string
	IsFirstLogin bool
	Message      string
}

// LoginAdmin verifies admin credentials and issues a token. A missing account
// and a wrong password are indistinguishable to the caller.
func (s *Service) LoginAdmin(ctx context.Context, email, password, mfaCode string) (AdminLogin, error) {
	admin, err := s.Store.FindAdminByEmail(ctx, email)
	if err != nil {
		return AdminLogin{}, ErrInvalidCredentials
	}
	if err := CheckPassword(admin.PasswordHash, password); err != nil {
		return AdminLogin{}, ErrInvalidCredentials
	}

	if admin.MFAEnabled {
		if mfaCode == "" {
			return AdminLogin{}, ErrMFARequired
		}
		secret, err := s.mfaSecret(admin)
		if err != nil || secret == "" || !totp.Validate(mfaCode, secret) {
			return AdminLogin{}, ErrMFAInvalid
		}
	}

	if err := s.Store.UpdateAdminLastLogin(ctx, admin.ID); err != nil {
		slog.Warn("update last_login failed", "adminId", admin.ID, "err", err)
	}

	token, err := GenerateToken(s.Secret, Claims{UserID: admin.ID, Role: RoleAdmin, Email: admin.Email}, s.TokenTTL)
	if err != nil {
		return AdminLogin{}, err
	}

	message := "Login successful!"
	if admin.IsFirstLogin {
		message = "First login detected. Please change your password."
	}
	return AdminLogin{Token: token, IsFirstLogin: admin.IsFirstLogin, Message: message}, nil
}

// LoginEmployee verifies employee credentials by employee ID. Soft-deleted
// employees cannot authenticate.
func (s *Service) LoginEmployee(ctx context.Context, employeeID, password string) (string, error) {
	emp, err := s.Store.FindEmployeeByLoginID(ctx, employeeID)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := CheckPassword(emp.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}
	return GenerateToken(s.Secret, Claims{UserID: emp.ID, Role: emp.Role, Email: emp.Email}, s.TokenTTL)
}

func (s *Service) ChangeAdminPassword(ctx context.Context, adminID, currentPassword, newPassword string) error {
	admin, err := s.Store.GetAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if err := CheckPassword(admin.PasswordHash, currentPassword); err != nil {
		return ErrInvalidCredentials
	}
	if err := CheckPasswordStrength(newPassword); err != nil {
		return err
	}
	hash, err := HashPasswordCost(newPassword, s.BcryptCost)
	if err != nil {
		return err
	}
	return s.Store.UpdateAdminPassword(ctx, adminID, hash)
}

// SetupMFA generates a fresh TOTP secret for the admin, stores it encrypted
// and disabled until the first code is verified through EnableMFA.
func (s *Service) SetupMFA(ctx context.Context, adminID string) (secret, otpauthURL string, err error) {
	if s.Crypto == nil || !s.Crypto.Configured() {
		return "", "", ErrMFAUnavailable
	}
	admin, err := s.Store.GetAdmin(ctx, adminID)
	if err != nil {
		return "", "", err
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Employee Dashboard",
		AccountName: admin.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		return "", "", err
	}
	encrypted, err := s.Crypto.EncryptString(key.Secret())
	if err != nil {
		return "", "", err
	}
	if err := s.Store.SetAdminMFASecret(ctx, adminID, encrypted); err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

func (s *Service) EnableMFA(ctx context.Context, adminID, code string) error {
	return s.toggleMFA(ctx, adminID, code, true)
}

func (s *Service) DisableMFA(ctx context.Context, adminID, code string) error {
	return s.toggleMFA(ctx, adminID, code, false)
}

func (s *Service) toggleMFA(ctx context.Context, adminID, code string, enabled bool) error {
	if s.Crypto == nil || !s.Crypto.Configured() {
		return ErrMFAUnavailable
	}
	admin, err := s.Store.GetAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	secret, err := s.mfaSecret(admin)
	if err != nil || secret == "" || !totp.Validate(code, secret) {
		return ErrMFAInvalid
	}
	return s.Store.SetAdminMFAEnabled(ctx, adminID, enabled)
}

func (s *Service) mfaSecret(admin Admin) (string, error) {
	if s.Crypto != nil && s.Crypto.Configured() {
		return s.Crypto.DecryptString(admin.MFASecretEnc)
	}
	return string(admin.MFASecretEnc), nil
}
