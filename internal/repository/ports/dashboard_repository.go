package ports

import (
	"context"
	"time"

	"github.com/batuwa-travels/travel-api/internal/domain"
)

type DashboardRepository interface {
	Counts(ctx context.Context) (*domain.DashboardCounts, error)
	MonthlyRevenue(ctx context.Context, since time.Time) ([]domain.MonthlyRevenue, error)
	RecentBookings(ctx context.Context, limit int) ([]domain.Booking, error)
}
