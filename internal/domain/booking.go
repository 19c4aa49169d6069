package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingApproved, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:  {BookingApproved, BookingCancelled},
	BookingApproved: {BookingCompleted, BookingCancelled},
}

// CanTransition reports whether a booking in status s may move to next.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

type Booking struct {
	ID                uuid.UUID     `db:"id" json:"id"`
	UserID            *uuid.UUID    `db:"user_id" json:"userId,omitempty"`
	TourID            *uuid.UUID    `db:"tour_id" json:"tourId,omitempty"`
	TourTitle         string        `db:"tour_title" json:"tourTitle"`
	CustomerName      string        `db:"customer_name" json:"customerName"`
	CustomerEmail     string        `db:"customer_email" json:"customerEmail"`
	CustomerPhone     string        `db:"customer_phone" json:"customerPhone"`
	NumberOfTravelers int           `db:"number_of_travelers" json:"numberOfTravelers"`
	TravelDate        time.Time     `db:"travel_date" json:"travelDate"`
	TotalAmount       float64       `db:"total_amount" json:"totalAmount"`
	DiscountAmount    float64       `db:"discount_amount" json:"discountAmount"`
	VoucherCode       string        `db:"voucher_code" json:"voucherCode"`
	Status            BookingStatus `db:"status" json:"status"`
	PaymentStatus     PaymentStatus `db:"payment_status" json:"paymentStatus"`
	SpecialRequests   string        `db:"special_requests" json:"specialRequests"`
	Notes             string        `db:"notes" json:"notes"`
	CreatedAt         time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updatedAt"`
}

type BookingFilter struct {
	Status        *BookingStatus
	PaymentStatus *PaymentStatus
	Search        string
	UserID        *uuid.UUID
	Pagination
}
