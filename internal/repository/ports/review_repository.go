package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) (*domain.Review, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	List(ctx context.Context, filter domain.ReviewFilter) ([]domain.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
