package db

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"empdash/internal/domain/auth"
	"empdash/internal/platform/config"
)

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Seed ensures the bootstrap admin account exists. Existing admins are left
// untouched so the first-login flag survives restarts.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := strings.TrimSpace(cfg.AdminEmail)
	password := strings.TrimSpace(cfg.AdminPassword)
	if email == "" || password == "" {
		slog.Warn("admin bootstrap skipped, ADMIN_EMAIL/ADMIN_PASSWORD not set")
		return nil
	}

	exists, err := adminExists(ctx, pool, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPasswordCost(password, cfg.BcryptCost)
	if err != nil {
		return err
	}

	var id string
	err = pool.QueryRow(ctx, `
    INSERT INTO admins (email, password_hash, name, is_first_login)
    VALUES ($1, $2, $3, true)
    RETURNING id
  `, email, hash, cfg.AdminName).Scan(&id)
	if err != nil {
		return err
	}
	slog.Info("bootstrap admin created", "email", email)
	return nil
}

// adminExists distinguishes "no row" from a failed query so a transient
// database error never triggers a duplicate insert attempt.
func adminExists(ctx context.Context, q rowQuerier, email string) (bool, error) {
	var id string
	err := q.QueryRow(ctx, "SELECT id FROM admins WHERE email = $1", email).Scan(&id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	default:
		return false, err
	}
}
