package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

type AdminSessionRepository struct {
	db *sqlx.DB
}

var _ ports.AdminSessionRepository = (*AdminSessionRepository)(nil)

func NewAdminSessionRepo(db *sqlx.DB) *AdminSessionRepository {
	return &AdminSessionRepository{db: db}
}

func (r *AdminSessionRepository) Create(ctx context.Context, session *domain.AdminSession) (*domain.AdminSession, error) {
	const query = `
        INSERT INTO admin_session (id, admin_id, ip_address, user_agent, expires_at, is_active)
        VALUES ($1, $2, $3, $4, $5, true)
        RETURNING id, admin_id, ip_address, user_agent, created_at, expires_at, is_active
    `
	row := r.db.QueryRowxContext(ctx, query, session.ID, session.AdminID, session.IPAddress, session.UserAgent, session.ExpiresAt)
	var stored domain.AdminSession
	if err := row.StructScan(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *AdminSessionRepository) FindActive(ctx context.Context, id uuid.UUID) (*domain.AdminSession, error) {
	const query = `
        SELECT id, admin_id, ip_address, user_agent, created_at, expires_at, is_active
        FROM admin_session
        WHERE id = $1 AND is_active = true AND expires_at > NOW()
    `
	var session domain.AdminSession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *AdminSessionRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE admin_session SET is_active = false, expires_at = NOW()
        WHERE id = $1 AND is_active = true
    `
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *AdminSessionRepository) DeactivateByAdmin(ctx context.Context, adminID uuid.UUID) error {
	const query = `
        UPDATE admin_session SET is_active = false, expires_at = NOW()
        WHERE admin_id = $1 AND is_active = true
    `
	_, err := r.db.ExecContext(ctx, query, adminID)
	return err
}
