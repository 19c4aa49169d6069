package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

const bookingColumns = `
	id, user_id, tour_id, tour_title, customer_name, customer_email, customer_phone,
	number_of_travelers, travel_date, total_amount, discount_amount, voucher_code,
	status, payment_status, special_requests, notes, created_at, updated_at`

type BookingRepository struct {
	db *sqlx.DB
}

var _ ports.BookingRepository = (*BookingRepository)(nil)

func NewBookingRepo(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	return insertBooking(ctx, r.db, b)
}

func (r *BookingRepository) CreateRedeeming(ctx context.Context, b *domain.Booking, voucherID uuid.UUID) (*domain.Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ok, err := redeemVoucher(ctx, tx, voucherID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ports.ErrVoucherUnavailable
	}
	stored, err := insertBooking(ctx, tx, b)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return stored, nil
}

func insertBooking(ctx context.Context, db sqlx.QueryerContext, b *domain.Booking) (*domain.Booking, error) {
	query := `
		INSERT INTO booking (
			user_id, tour_id, tour_title, customer_name, customer_email, customer_phone,
			number_of_travelers, travel_date, total_amount, discount_amount, voucher_code,
			status, payment_status, special_requests, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + bookingColumns
	var stored domain.Booking
	err := db.QueryRowxContext(ctx, query,
		nullableUUID(b.UserID), nullableUUID(b.TourID), b.TourTitle, b.CustomerName, b.CustomerEmail, b.CustomerPhone,
		b.NumberOfTravelers, b.TravelDate, b.TotalAmount, b.DiscountAmount, b.VoucherCode,
		b.Status, b.PaymentStatus, b.SpecialRequests, b.Notes,
	).StructScan(&stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	query := `
		UPDATE booking SET
			user_id = $2, tour_id = $3, tour_title = $4, customer_name = $5, customer_email = $6,
			customer_phone = $7, number_of_travelers = $8, travel_date = $9, total_amount = $10,
			discount_amount = $11, voucher_code = $12, status = $13, payment_status = $14,
			special_requests = $15, notes = $16, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + bookingColumns
	var stored domain.Booking
	err := r.db.QueryRowxContext(ctx, query, b.ID,
		nullableUUID(b.UserID), nullableUUID(b.TourID), b.TourTitle, b.CustomerName, b.CustomerEmail,
		b.CustomerPhone, b.NumberOfTravelers, b.TravelDate, b.TotalAmount,
		b.DiscountAmount, b.VoucherCode, b.Status, b.PaymentStatus,
		b.SpecialRequests, b.Notes,
	).StructScan(&stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM booking WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &b, nil
}

func bookingWhere(filter domain.BookingFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.Status != nil {
		w.add("status = $%d", *filter.Status)
	}
	if filter.PaymentStatus != nil {
		w.add("payment_status = $%d", *filter.PaymentStatus)
	}
	if filter.UserID != nil {
		w.add("user_id = $%d", *filter.UserID)
	}
	w.addSearch(filter.Search, "customer_name", "customer_email", "tour_title")
	return w
}

func (r *BookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, int, error) {
	w := bookingWhere(filter)
	total, err := countRows(ctx, r.db, "booking", w)
	if err != nil {
		return nil, 0, err
	}

	limitClause, args := w.page(filter.Limit, filter.Offset())
	query := fmt.Sprintf(`SELECT %s FROM booking %s ORDER BY created_at DESC, id DESC %s`, bookingColumns, w.sql(), limitClause)
	var bookings []domain.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *BookingRepository) ListAll(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	w := bookingWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM booking %s ORDER BY created_at DESC, id DESC`, bookingColumns, w.sql())
	var bookings []domain.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, w.args...); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) CountVoucherUses(ctx context.Context, code, customerEmail string) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM booking WHERE voucher_code = UPPER($1) AND lower(customer_email) = lower($2)`
	if err := r.db.GetContext(ctx, &count, query, code, customerEmail); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM booking WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
