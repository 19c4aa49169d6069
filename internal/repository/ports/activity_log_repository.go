package ports

import (
	"context"

	"github.com/batuwa-travels/travel-api/internal/domain"
)

// ActivityLogRepository is append-only.
type ActivityLogRepository interface {
	Insert(ctx context.Context, entry *domain.ActivityLog) error
	List(ctx context.Context, filter domain.ActivityLogFilter) ([]domain.ActivityLog, int, error)
}
