package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
)

type InquiryRepository interface {
	Create(ctx context.Context, inquiry *domain.Inquiry) (*domain.Inquiry, error)
	Update(ctx context.Context, inquiry *domain.Inquiry) (*domain.Inquiry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Inquiry, error)
	List(ctx context.Context, filter domain.InquiryFilter) ([]domain.Inquiry, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
