package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
)

type VoucherRepository interface {
	Create(ctx context.Context, voucher *domain.Voucher) (*domain.Voucher, error)
	Update(ctx context.Context, voucher *domain.Voucher) (*domain.Voucher, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Voucher, error)
	FindActiveByCode(ctx context.Context, code string) (*domain.Voucher, error)
	List(ctx context.Context) ([]domain.Voucher, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Redeem increments usage_count only while the voucher is active and below
	// its usage limit. It returns false when no row qualified.
	Redeem(ctx context.Context, id uuid.UUID) (bool, error)
}
