package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
)

type BlogRepository interface {
	Create(ctx context.Context, blog *domain.Blog) (*domain.Blog, error)
	Update(ctx context.Context, blog *domain.Blog) (*domain.Blog, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Blog, error)
	List(ctx context.Context) ([]domain.Blog, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type GalleryRepository interface {
	Create(ctx context.Context, item *domain.GalleryItem) (*domain.GalleryItem, error)
	UpdateCaption(ctx context.Context, id uuid.UUID, caption string) (*domain.GalleryItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GalleryItem, error)
	List(ctx context.Context) ([]domain.GalleryItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
