package auth

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	cryptoutil "empdash/internal/platform/crypto"
)

type fakeStore struct {
	admins    map[string]Admin
	employees map[string]EmployeeCredentials
	deleted   map[string]bool

	lastLoginCalls int
	passwordCalls  int
	savedHash      string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		admins:    map[string]Admin{},
		employees: map[string]EmployeeCredentials{},
		deleted:   map[string]bool{},
	}
}

func (f *fakeStore) FindAdminByEmail(_ context.Context, email string) (Admin, error) {
	for _, admin := range f.admins {
		if admin.Email == email {
			return admin, nil
		}
	}
	return Admin{}, ErrNotFound
}

func (f *fakeStore) GetAdmin(_ context.Context, id string) (Admin, error) {
	admin, ok := f.admins[id]
	if !ok {
		return Admin{}, ErrNotFound
	}
	return admin, nil
}

func (f *fakeStore) UpdateAdminLastLogin(context.Context, string) error {
	f.lastLoginCalls++
	return nil
}

func (f *fakeStore) UpdateAdminPassword(_ context.Context, id, hash string) error {
	f.passwordCalls++
	f.savedHash = hash
	admin := f.admins[id]
	admin.PasswordHash = hash
	admin.IsFirstLogin = false
	f.admins[id] = admin
	return nil
}

func (f *fakeStore) SetAdminMFASecret(_ context.Context, id string, secretEnc []byte) error {
	admin := f.admins[id]
	admin.MFASecretEnc = secretEnc
	admin.MFAEnabled = false
	f.admins[id] = admin
	return nil
}

func (f *fakeStore) SetAdminMFAEnabled(_ context.Context, id string, enabled bool) error {
	admin := f.admins[id]
	admin.MFAEnabled = enabled
	f.admins[id] = admin
	return nil
}

// Soft-deleted employees are invisible to the store, mirroring the
// is_deleted predicate in the SQL implementation.
func (f *fakeStore) FindEmployeeByLoginID(_ context.Context, employeeID string) (EmployeeCredentials, error) {
	emp, ok := f.employees[employeeID]
	if !ok || f.deleted[employeeID] {
		return EmployeeCredentials{}, ErrNotFound
	}
	return emp, nil
}

func newTestService(store StoreAPI) *Service {
	return NewService(store, "test-secret", time.Hour, 10, nil)
}

func seedAdmin(t *testing.T, store *fakeStore, password string, firstLogin bool) Admin {
	t.Helper()
	hash, err := HashPasswordCost(password, 10)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	admin := Admin{ID: "a1", Email: "admin@company.com", PasswordHash: hash, IsFirstLogin: firstLogin}
	store.admins[admin.ID] = admin
	return admin
}

func TestLoginAdminSuccess(t *testing.T) {
	store := newFakeStore()
	seedAdmin(t, store, "Str0ng!pass", false)
	svc := newTestService(store)

	result, err := svc.LoginAdmin(context.Background(), "admin@company.com", "Str0ng!pass", "")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a token")
	}
	if result.IsFirstLogin {
		t.Fatal("did not expect first-login flag")
	}
	if result.Message != "Login successful!" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	if store.lastLoginCalls != 1 {
		t.Fatalf("expected one last-login update, got %d", store.lastLoginCalls)
	}

	claims, err := ParseToken("test-secret", result.Token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.Role != RoleAdmin || claims.UserID != "a1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginAdminFirstLoginMessage(t *testing.T) {
	store := newFakeStore()
	seedAdmin(t, store, "Str0ng!pass", true)
	svc := newTestService(store)

	result, err := svc.LoginAdmin(context.Background(), "admin@company.com", "Str0ng!pass", "")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if !result.IsFirstLogin {
		t.Fatal("expected first-login flag")
	}
	if result.Message != "First login detected. Please change your password." {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestLoginAdminBadCredentials(t *testing.T) {
	store := newFakeStore()
	seedAdmin(t, store, "Str0ng!pass", false)
	svc := newTestService(store)

	if _, err := svc.LoginAdmin(context.Background(), "admin@company.com", "wrong", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	// An unknown account is indistinguishable from a wrong password.
	if _, err := svc.LoginAdmin(context.Background(), "nobody@company.com", "Str0ng!pass", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginEmployee(t *testing.T) {
	store := newFakeStore()
	hash, err := HashPasswordCost("Empl0yee!pw", 10)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	store.employees["EMPAB1234"] = EmployeeCredentials{
		ID: "e1", EmployeeID: "EMPAB1234", Email: "e@example.com", Role: RoleEmployee, PasswordHash: hash,
	}
	svc := newTestService(store)

	token, err := svc.LoginEmployee(context.Background(), "EMPAB1234", "Empl0yee!pw")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	claims, err := ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.UserID != "e1" || claims.Role != RoleEmployee {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := svc.LoginEmployee(context.Background(), "EMPZZ9999", "Empl0yee!pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginEmployeeSoftDeleted(t *testing.T) {
	store := newFakeStore()
	hash, err := HashPasswordCost("Empl0yee!pw", 10)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	store.employees["EMPAB1234"] = EmployeeCredentials{
		ID: "e1", EmployeeID: "EMPAB1234", Role: RoleEmployee, PasswordHash: hash,
	}
	store.deleted["EMPAB1234"] = true
	svc := newTestService(store)

	// Correct credentials, but the account was removed from the directory.
	if _, err := svc.LoginEmployee(context.Background(), "EMPAB1234", "Empl0yee!pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestChangeAdminPassword(t *testing.T) {
	store := newFakeStore()
	seedAdmin(t, store, "Old!pass1", true)
	svc := newTestService(store)

	if err := svc.ChangeAdminPassword(context.Background(), "a1", "wrong", "New!pass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if err := svc.ChangeAdminPassword(context.Background(), "a1", "Old!pass1", "weak"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	if err := svc.ChangeAdminPassword(context.Background(), "a1", "Old!pass1", "New!pass1"); err != nil {
		t.Fatalf("change error: %v", err)
	}
	if store.passwordCalls != 1 {
		t.Fatalf("expected one password write, got %d", store.passwordCalls)
	}
	if err := CheckPassword(store.savedHash, "New!pass1"); err != nil {
		t.Fatalf("stored hash does not match new password: %v", err)
	}

	if err := svc.ChangeAdminPassword(context.Background(), "missing", "x", "New!pass1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMFAFlow(t *testing.T) {
	store := newFakeStore()
	seedAdmin(t, store, "Str0ng!pass", false)
	crypto, err := cryptoutil.New(hex.EncodeToString([]byte("0123456789abcdef0123456789abcdef")))
	if err != nil {
		t.Fatalf("crypto error: %v", err)
	}
	svc := NewService(store, "test-secret", time.Hour, 10, crypto)

	secret, otpauthURL, err := svc.SetupMFA(context.Background(), "a1")
	if err != nil {
		t.Fatalf("setup error: %v", err)
	}
	if secret == "" || otpauthURL == "" {
		t.Fatal("expected secret and otpauth url")
	}
	if store.admins["a1"].MFAEnabled {
		t.Fatal("mfa must stay disabled until a code is verified")
	}

	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("code error: %v", err)
	}
	if err := svc.EnableMFA(context.Background(), "a1", code); err != nil {
		t.Fatalf("enable error: %v", err)
	}
	if !store.admins["a1"].MFAEnabled {
		t.Fatal("expected mfa enabled")
	}

	if _, err := svc.LoginAdmin(context.Background(), "admin@company.com", "Str0ng!pass", ""); !errors.Is(err, ErrMFARequired) {
		t.Fatalf("expected ErrMFARequired, got %v", err)
	}
	if _, err := svc.LoginAdmin(context.Background(), "admin@company.com", "Str0ng!pass", "000000"); !errors.Is(err, ErrMFAInvalid) {
		t.Fatalf("expected ErrMFAInvalid, got %v", err)
	}
	code, err = totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("code error: %v", err)
	}
	if _, err := svc.LoginAdmin(context.Background(), "admin@company.com", "Str0ng!pass", code); err != nil {
		t.Fatalf("login with mfa error: %v", err)
	}
}

func TestMFAUnavailableWithoutEncryption(t *testing.T) {
	store := newFakeStore()
	seedAdmin(t, store, "Str0ng!pass", false)
	svc := newTestService(store)

	if _, _, err := svc.SetupMFA(context.Background(), "a1"); !errors.Is(err, ErrMFAUnavailable) {
		t.Fatalf("expected ErrMFAUnavailable, got %v", err)
	}
	if err := svc.EnableMFA(context.Background(), "a1", "000000"); !errors.Is(err, ErrMFAUnavailable) {
		t.Fatalf("expected ErrMFAUnavailable, got %v", err)
	}
}
