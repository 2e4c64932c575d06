package audit

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"empdash/internal/platform/requestctx"
)

// Service appends to the audit trail. The trail is a compliance record, not a
// served resource: there is no read API.
type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

func (s *Service) Record(ctx context.Context, actorID, action string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_events (actor_id, action, request_id, ip)
    VALUES ($1,$2,$3,$4)
  `, actorID, action, requestctx.GetRequestID(ctx), requestctx.GetClientIP(ctx))
	return err
}
