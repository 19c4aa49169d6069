package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
)

type TourRepository interface {
	Create(ctx context.Context, tour *domain.Tour) (*domain.Tour, error)
	Update(ctx context.Context, tour *domain.Tour) (*domain.Tour, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tour, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tour, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter domain.TourFilter) ([]domain.Tour, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	IncrementBookings(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
