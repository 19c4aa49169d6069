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

const reviewColumns = `
	id, author, email, rating, message, tour_id, tour_title, user_id, approved, featured, hidden,
	edited_by, edited_message, is_edited, photos, verified_purchase, created_at, updated_at`

type ReviewRepository struct {
	db *sqlx.DB
}

var _ ports.ReviewRepository = (*ReviewRepository)(nil)

func NewReviewRepo(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func reviewArgs(review *domain.Review) map[string]any {
	return map[string]any{
		"id":                review.ID,
		"author":            review.Author,
		"email":             review.Email,
		"rating":            review.Rating,
		"message":           review.Message,
		"tour_id":           nullableUUID(review.TourID),
		"tour_title":        review.TourTitle,
		"user_id":           nullableUUID(review.UserID),
		"approved":          review.Approved,
		"featured":          review.Featured,
		"hidden":            review.Hidden,
		"edited_by":         nullableUUID(review.EditedBy),
		"edited_message":    review.EditedMessage,
		"is_edited":         review.IsEdited,
		"photos":            review.Photos,
		"verified_purchase": review.VerifiedPurchase,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	query := `
		INSERT INTO review (
			author, email, rating, message, tour_id, tour_title, user_id, approved, featured, hidden,
			edited_by, edited_message, is_edited, photos, verified_purchase
		) VALUES (
			:author, :email, :rating, :message, :tour_id, :tour_title, :user_id, :approved, :featured, :hidden,
			:edited_by, :edited_message, :is_edited, :photos, :verified_purchase
		)
		RETURNING ` + reviewColumns
	return r.namedReturning(ctx, query, reviewArgs(review))
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	query := `
		UPDATE review SET
			author = :author, email = :email, rating = :rating, message = :message, tour_id = :tour_id,
			tour_title = :tour_title, user_id = :user_id, approved = :approved, featured = :featured,
			hidden = :hidden, edited_by = :edited_by, edited_message = :edited_message,
			is_edited = :is_edited, photos = :photos, verified_purchase = :verified_purchase,
			updated_at = NOW()
		WHERE id = :id
		RETURNING ` + reviewColumns
	return r.namedReturning(ctx, query, reviewArgs(review))
}

func (r *ReviewRepository) namedReturning(ctx context.Context, query string, args map[string]any) (*domain.Review, error) {
	rows, err := r.db.NamedQueryContext(ctx, query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		var stored domain.Review
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

func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	var review domain.Review
	if err := r.db.GetContext(ctx, &review, `SELECT `+reviewColumns+` FROM review WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) List(ctx context.Context, filter domain.ReviewFilter) ([]domain.Review, error) {
	w := &whereBuilder{}
	if filter.Visibility == domain.VisibilityPublic {
		w.add("approved = $%d", true)
		w.add("hidden = $%d", false)
	} else {
		if filter.Approved != nil {
			w.add("approved = $%d", *filter.Approved)
		}
		if filter.Hidden != nil {
			w.add("hidden = $%d", *filter.Hidden)
		}
	}
	if filter.TourID != nil {
		w.add("tour_id = $%d", *filter.TourID)
	}
	if filter.Featured != nil {
		w.add("featured = $%d", *filter.Featured)
	}

	query := fmt.Sprintf(`SELECT %s FROM review %s ORDER BY created_at DESC, id DESC`, reviewColumns, w.sql())
	var reviews []domain.Review
	if err := r.db.SelectContext(ctx, &reviews, query, w.args...); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM review WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
