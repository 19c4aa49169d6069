package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

const adminColumns = `id, username, email, password_hash, role, full_name, is_active, last_login, last_login_ip, created_at, updated_at`

type AdminRepository struct {
	db *sqlx.DB
}

var _ ports.AdminRepository = (*AdminRepository)(nil)

func NewAdminRepo(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(ctx context.Context, admin *domain.Admin) (*domain.Admin, error) {
	query := `
		INSERT INTO admin_account (username, email, password_hash, role, full_name, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + adminColumns
	var stored domain.Admin
	err := r.db.QueryRowxContext(ctx, query,
		admin.Username, admin.Email, admin.PasswordHash, admin.Role, admin.FullName, admin.IsActive,
	).StructScan(&stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *AdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	var admin domain.Admin
	if err := r.db.GetContext(ctx, &admin, `SELECT `+adminColumns+` FROM admin_account WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	var admin domain.Admin
	if err := r.db.GetContext(ctx, &admin, `SELECT `+adminColumns+` FROM admin_account WHERE username = $1`, username); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) List(ctx context.Context) ([]domain.Admin, error) {
	var admins []domain.Admin
	if err := r.db.SelectContext(ctx, &admins, `SELECT `+adminColumns+` FROM admin_account ORDER BY created_at ASC`); err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM admin_account`); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *AdminRepository) Update(ctx context.Context, id uuid.UUID, update domain.AdminUpdate) (*domain.Admin, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}
	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if update.Email != nil {
		appendSet("email", *update.Email)
	}
	if update.FullName != nil {
		appendSet("full_name", *update.FullName)
	}
	if update.Role != nil {
		appendSet("role", *update.Role)
	}
	if update.IsActive != nil {
		appendSet("is_active", *update.IsActive)
	}
	if update.PasswordHash != nil {
		appendSet("password_hash", *update.PasswordHash)
	}

	query := fmt.Sprintf(`UPDATE admin_account SET %s WHERE id = $1 RETURNING %s`, strings.Join(sets, ", "), adminColumns)
	var admin domain.Admin
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time, ip string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE admin_account SET last_login = $2, last_login_ip = $3 WHERE id = $1`, id, at, ip)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *AdminRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM admin_account WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

