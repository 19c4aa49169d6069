package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
)

// ErrVoucherUnavailable is returned by CreateRedeeming when the voucher no
// longer qualifies for another use. No booking is stored.
var ErrVoucherUnavailable = errors.New("voucher unavailable")

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	// CreateRedeeming consumes one use of the voucher and stores the booking
	// atomically. Either both happen or neither does.
	CreateRedeeming(ctx context.Context, booking *domain.Booking, voucherID uuid.UUID) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, int, error)
	ListAll(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
	CountVoucherUses(ctx context.Context, code, customerEmail string) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
