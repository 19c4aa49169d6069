package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
)

type AdminSessionRepository interface {
	Create(ctx context.Context, session *domain.AdminSession) (*domain.AdminSession, error)
	FindActive(ctx context.Context, id uuid.UUID) (*domain.AdminSession, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	DeactivateByAdmin(ctx context.Context, adminID uuid.UUID) error
}
