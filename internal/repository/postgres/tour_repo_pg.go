package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

const tourColumns = `
	id, title, slug, img, description, full_description, price, discount_price, discount_percent,
	days, nights, location, difficulty, status, trending, upcoming, featured, photos, videos, map_url,
	max_group_size, min_group_size, includes, excludes, itinerary, seasonal_pricing, details,
	views, bookings, created_at, updated_at`

type TourRepository struct {
	db *sqlx.DB
}

var _ ports.TourRepository = (*TourRepository)(nil)

func NewTourRepo(db *sqlx.DB) *TourRepository {
	return &TourRepository{db: db}
}

func tourArgs(t *domain.Tour) map[string]any {
	return map[string]any{
		"id":               t.ID,
		"title":            t.Title,
		"slug":             t.Slug,
		"img":              t.Image,
		"description":      t.Description,
		"full_description": t.FullDescription,
		"price":            t.Price,
		"discount_price":   t.DiscountPrice,
		"discount_percent": t.DiscountPercent,
		"days":             t.Days,
		"nights":           t.Nights,
		"location":         t.Location,
		"difficulty":       t.Difficulty,
		"status":           t.Status,
		"trending":         t.Trending,
		"upcoming":         t.Upcoming,
		"featured":         t.Featured,
		"photos":           t.Photos,
		"videos":           t.Videos,
		"map_url":          t.MapURL,
		"max_group_size":   t.MaxGroupSize,
		"min_group_size":   t.MinGroupSize,
		"includes":         t.Includes,
		"excludes":         t.Excludes,
		"itinerary":        t.Itinerary,
		"seasonal_pricing": t.SeasonalPricing,
		"details":          t.Details,
	}
}

func (r *TourRepository) Create(ctx context.Context, tour *domain.Tour) (*domain.Tour, error) {
	query := `
		INSERT INTO tour (
			title, slug, img, description, full_description, price, discount_price, discount_percent,
			days, nights, location, difficulty, status, trending, upcoming, featured, photos, videos, map_url,
			max_group_size, min_group_size, includes, excludes, itinerary, seasonal_pricing, details
		) VALUES (
			:title, :slug, :img, :description, :full_description, :price, :discount_price, :discount_percent,
			:days, :nights, :location, :difficulty, :status, :trending, :upcoming, :featured, :photos, :videos, :map_url,
			:max_group_size, :min_group_size, :includes, :excludes, :itinerary, :seasonal_pricing, :details
		)
		RETURNING ` + tourColumns
	return r.namedReturning(ctx, query, tourArgs(tour))
}

func (r *TourRepository) Update(ctx context.Context, tour *domain.Tour) (*domain.Tour, error) {
	query := `
		UPDATE tour SET
			title = :title, img = :img, description = :description, full_description = :full_description,
			price = :price, discount_price = :discount_price, discount_percent = :discount_percent,
			days = :days, nights = :nights, location = :location, difficulty = :difficulty, status = :status,
			trending = :trending, upcoming = :upcoming, featured = :featured, photos = :photos, videos = :videos,
			map_url = :map_url, max_group_size = :max_group_size, min_group_size = :min_group_size,
			includes = :includes, excludes = :excludes, itinerary = :itinerary,
			seasonal_pricing = :seasonal_pricing, details = :details, updated_at = NOW()
		WHERE id = :id
		RETURNING ` + tourColumns
	return r.namedReturning(ctx, query, tourArgs(tour))
}

func (r *TourRepository) namedReturning(ctx context.Context, query string, args map[string]any) (*domain.Tour, error) {
	rows, err := r.db.NamedQueryContext(ctx, query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		var stored domain.Tour
		if err := rows.StructScan(&stored); err != nil {
			return nil, err
		}
		return &stored, nil
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return nil, sql.ErrNoRows
}

func (r *TourRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tour, error) {
	var tour domain.Tour
	if err := r.db.GetContext(ctx, &tour, `SELECT `+tourColumns+` FROM tour WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &tour, nil
}

func (r *TourRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tour, error) {
	var tour domain.Tour
	if err := r.db.GetContext(ctx, &tour, `SELECT `+tourColumns+` FROM tour WHERE slug = $1`, slug); err != nil {
		return nil, err
	}
	return &tour, nil
}

func (r *TourRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM tour WHERE slug = $1)`, slug); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *TourRepository) List(ctx context.Context, filter domain.TourFilter) ([]domain.Tour, error) {
	w := &whereBuilder{}
	if filter.Visibility == domain.VisibilityPublic {
		w.add("status = $%d", domain.TourStatusPublished)
	} else if filter.Status != nil {
		w.add("status = $%d", *filter.Status)
	}
	if filter.Featured != nil {
		w.add("featured = $%d", *filter.Featured)
	}
	if filter.Trending != nil {
		w.add("trending = $%d", *filter.Trending)
	}
	if filter.Upcoming != nil {
		w.add("upcoming = $%d", *filter.Upcoming)
	}
	w.addSearch(filter.Search, "title", "location")

	query := fmt.Sprintf(`SELECT %s FROM tour %s ORDER BY created_at DESC, id DESC`, tourColumns, w.sql())
	var tours []domain.Tour
	if err := r.db.SelectContext(ctx, &tours, query, w.args...); err != nil {
		return nil, err
	}
	return tours, nil
}

func (r *TourRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tour SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *TourRepository) IncrementBookings(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tour SET bookings = bookings + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *TourRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tour WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
