package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

const userColumns = `id, name, email, phone, role, is_blocked, avatar, preferences, created_at, updated_at`

type UserRepository struct {
	db *sqlx.DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO site_user (name, email, phone, role, is_blocked, avatar, preferences)
		VALUES ($1, LOWER($2), $3, $4, $5, $6, $7)
		RETURNING ` + userColumns
	var stored domain.User
	err := r.db.QueryRowxContext(ctx, query,
		user.Name, user.Email, user.Phone, user.Role, user.IsBlocked, user.Avatar, user.Preferences,
	).StructScan(&stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		UPDATE site_user SET
			name = $2, email = LOWER($3), phone = $4, role = $5, is_blocked = $6,
			avatar = $7, preferences = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	var stored domain.User
	err := r.db.QueryRowxContext(ctx, query, user.ID,
		user.Name, user.Email, user.Phone, user.Role, user.IsBlocked, user.Avatar, user.Preferences,
	).StructScan(&stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM site_user WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int, error) {
	w := &whereBuilder{}
	if filter.IsBlocked != nil {
		w.add("is_blocked = $%d", *filter.IsBlocked)
	}
	w.addSearch(filter.Search, "name", "email", "phone")

	total, err := countRows(ctx, r.db, "site_user", w)
	if err != nil {
		return nil, 0, err
	}

	limitClause, args := w.page(filter.Limit, filter.Offset())
	query := fmt.Sprintf(`SELECT %s FROM site_user %s ORDER BY created_at DESC, id DESC %s`, userColumns, w.sql(), limitClause)
	var users []domain.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM site_user WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
