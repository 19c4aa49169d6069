package service

import (
	"context"
	"time"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

const (
	dashboardMonths         = 6
	dashboardRecentBookings = 5
)

type DashboardService struct {
	repo ports.DashboardRepository
	now  func() time.Time
}

func NewDashboardService(repo ports.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo, now: time.Now}
}

func (s *DashboardService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Summary returns headline counts, revenue for the last six calendar months
// including the current one, and the most recent bookings.
func (s *DashboardService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(dashboardMonths - 1), 0)
	rows, err := s.repo.MonthlyRevenue(ctx, since)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.RecentBookings(ctx, dashboardRecentBookings)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []domain.Booking{}
	}

	return &domain.DashboardSummary{
		Stats:          *counts,
		MonthlyRevenue: fillMonths(since, dashboardMonths, rows),
		RecentBookings: recent,
	}, nil
}

// fillMonths returns one entry per month starting at since, using zero for
// months without revenue.
func fillMonths(since time.Time, months int, rows []domain.MonthlyRevenue) []domain.MonthlyRevenue {
	type key struct{ year, month int }
	byMonth := make(map[key]domain.MonthlyRevenue, len(rows))
	for _, row := range rows {
		byMonth[key{row.Year, row.Month}] = row
	}

	out := make([]domain.MonthlyRevenue, 0, months)
	for i := 0; i < months; i++ {
		at := since.AddDate(0, i, 0)
		k := key{at.Year(), int(at.Month())}
		row, ok := byMonth[k]
		if !ok {
			row = domain.MonthlyRevenue{Year: k.year, Month: k.month}
		}
		row.Revenue = round2(row.Revenue)
		out = append(out, row)
	}
	return out
}
