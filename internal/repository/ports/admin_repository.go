package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) (*domain.Admin, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error)
	FindByUsername(ctx context.Context, username string) (*domain.Admin, error)
	List(ctx context.Context) ([]domain.Admin, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, id uuid.UUID, update domain.AdminUpdate) (*domain.Admin, error)
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time, ip string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
