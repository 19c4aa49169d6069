package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

const activityLogColumns = `
	id, admin_id, admin_username, action, resource, resource_id, details, changes,
	ip_address, user_agent, created_at`

type ActivityLogRepository struct {
	db *sqlx.DB
}

var _ ports.ActivityLogRepository = (*ActivityLogRepository)(nil)

func NewActivityLogRepo(db *sqlx.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

func (r *ActivityLogRepository) Insert(ctx context.Context, entry *domain.ActivityLog) error {
	const query = `
		INSERT INTO activity_log (
			admin_id, admin_username, action, resource, resource_id, details, changes, ip_address, user_agent
		) VALUES (
			:admin_id, :admin_username, :action, :resource, :resource_id, :details, :changes, :ip_address, :user_agent
		)
		RETURNING id, created_at
	`
	args := map[string]any{
		"admin_id":       entry.AdminID,
		"admin_username": entry.AdminUsername,
		"action":         entry.Action,
		"resource":       entry.Resource,
		"resource_id":    entry.ResourceID,
		"details":        entry.Details,
		"changes":        entry.Changes,
		"ip_address":     entry.IPAddress,
		"user_agent":     entry.UserAgent,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, args)
	if err != nil {
		return err
	}
	defer rows.Close()

	if rows.Next() {
		return rows.Scan(&entry.ID, &entry.CreatedAt)
	}
	return rows.Err()
}

func (r *ActivityLogRepository) List(ctx context.Context, filter domain.ActivityLogFilter) ([]domain.ActivityLog, int, error) {
	w := &whereBuilder{}
	if filter.Resource != "" {
		w.add("resource = $%d", filter.Resource)
	}
	if filter.Action != "" {
		w.add("action = $%d", filter.Action)
	}
	if filter.AdminID != nil {
		w.add("admin_id = $%d", *filter.AdminID)
	}

	total, err := countRows(ctx, r.db, "activity_log", w)
	if err != nil {
		return nil, 0, err
	}

	limitClause, args := w.page(filter.Limit, filter.Offset())
	query := fmt.Sprintf(`SELECT %s FROM activity_log %s ORDER BY created_at DESC, id DESC %s`, activityLogColumns, w.sql(), limitClause)
	var entries []domain.ActivityLog
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
