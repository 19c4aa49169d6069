package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

type DashboardRepository struct {
	db *sqlx.DB
}

var _ ports.DashboardRepository = (*DashboardRepository)(nil)

func NewDashboardRepo(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func revenueStatuses() pq.StringArray {
	statuses := make(pq.StringArray, 0, len(domain.RevenueStatuses))
	for _, s := range domain.RevenueStatuses {
		statuses = append(statuses, string(s))
	}
	return statuses
}

func (r *DashboardRepository) Counts(ctx context.Context) (*domain.DashboardCounts, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM site_user) AS total_users,
			(SELECT COUNT(*) FROM booking) AS total_bookings,
			(SELECT COUNT(*) FROM tour) AS total_tours,
			(SELECT COUNT(*) FROM tour WHERE status = 'published') AS published_tours,
			(SELECT COUNT(*) FROM tour WHERE status = 'hidden') AS hidden_tours,
			(SELECT COUNT(*) FROM booking WHERE status = 'pending') AS pending_bookings,
			(SELECT COUNT(*) FROM booking WHERE status = 'approved') AS approved_bookings,
			(SELECT COUNT(*) FROM booking WHERE status = 'cancelled') AS cancelled_bookings,
			(SELECT COUNT(*) FROM inquiry WHERE status = 'new') AS pending_inquiries,
			(SELECT COUNT(*) FROM review WHERE approved = false) AS pending_reviews,
			(SELECT COUNT(*) FROM review WHERE approved = true) AS approved_reviews,
			(SELECT COALESCE(SUM(total_amount), 0)::float8 FROM booking WHERE status = ANY($1)) AS total_revenue
	`
	var counts domain.DashboardCounts
	if err := r.db.GetContext(ctx, &counts, query, revenueStatuses()); err != nil {
		return nil, err
	}
	return &counts, nil
}

func (r *DashboardRepository) MonthlyRevenue(ctx context.Context, since time.Time) ([]domain.MonthlyRevenue, error) {
	const query = `
		SELECT
			EXTRACT(YEAR FROM created_at)::int AS year,
			EXTRACT(MONTH FROM created_at)::int AS month,
			COALESCE(SUM(total_amount), 0)::float8 AS revenue,
			COUNT(*) AS bookings
		FROM booking
		WHERE created_at >= $1 AND status = ANY($2)
		GROUP BY year, month
		ORDER BY year, month
	`
	var rows []domain.MonthlyRevenue
	if err := r.db.SelectContext(ctx, &rows, query, since, revenueStatuses()); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *DashboardRepository) RecentBookings(ctx context.Context, limit int) ([]domain.Booking, error) {
	var bookings []domain.Booking
	query := `SELECT ` + bookingColumns + ` FROM booking ORDER BY created_at DESC, id DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &bookings, query, limit); err != nil {
		return nil, err
	}
	return bookings, nil
}
