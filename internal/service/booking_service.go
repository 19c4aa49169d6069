package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/reports"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

var (
	ErrBookingValidation  = errors.New("booking validation failed")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrBookingsDisabled   = errors.New("bookings are currently disabled")
	ErrInvalidTransition  = errors.New("invalid booking status transition")
	ErrUnsupportedExport  = errors.New("unsupported export format")
	errNotificationFailed = errors.New("notification failed")
)

const (
	defaultBookingLimit = 20
	maxBookingLimit     = 100

	BookingSourcePublic = "public"
	BookingSourceAdmin  = "admin"
)

type BookingNotifier interface {
	NotifyBooking(ctx context.Context, booking *domain.Booking) error
}

type BookingObserver interface {
	BookingCreated(source string)
}

type BookingInput struct {
	TourID            uuid.UUID
	UserID            *uuid.UUID
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
	NumberOfTravelers int
	TravelDate        time.Time
	VoucherCode       string
	SpecialRequests   string
}

// AdminBookingInput records a manual booking. Totals are computed from the
// tour when TotalAmount is nil.
type AdminBookingInput struct {
	BookingInput
	TourTitle      string
	TotalAmount    *float64
	DiscountAmount *float64
	Status         *domain.BookingStatus
	PaymentStatus  *domain.PaymentStatus
	Notes          string
}

type BookingUpdate struct {
	Status            *domain.BookingStatus
	PaymentStatus     *domain.PaymentStatus
	Notes             *string
	CustomerName      *string
	CustomerEmail     *string
	CustomerPhone     *string
	NumberOfTravelers *int
	TravelDate        *time.Time
	SpecialRequests   *string
}

type BookingServiceConfig struct {
	Notifier BookingNotifier
	Observer BookingObserver
	Exporter *reports.BookingExporter
}

type BookingService struct {
	bookings ports.BookingRepository
	tours    ports.TourRepository
	vouchers *VoucherService
	settings *SettingsService
	activity *ActivityRecorder
	notifier BookingNotifier
	observer BookingObserver
	exporter *reports.BookingExporter
	now      func() time.Time
}

func NewBookingService(
	bookings ports.BookingRepository,
	tours ports.TourRepository,
	vouchers *VoucherService,
	settings *SettingsService,
	activity *ActivityRecorder,
	cfg BookingServiceConfig,
) *BookingService {
	exporter := cfg.Exporter
	if exporter == nil {
		exporter = reports.NewBookingExporter()
	}
	return &BookingService{
		bookings: bookings,
		tours:    tours,
		vouchers: vouchers,
		settings: settings,
		activity: activity,
		notifier: cfg.Notifier,
		observer: cfg.Observer,
		exporter: exporter,
		now:      time.Now,
	}
}

func (s *BookingService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// UnitPrice is the per-traveler price on travelDate. A covering seasonal
// window wins, then a fixed discount price, then the list price less the
// tour's discount percent.
func UnitPrice(t *domain.Tour, travelDate time.Time) float64 {
	for _, season := range t.SeasonalPricing {
		if season.Covers(travelDate) {
			return round2(season.Price * (1 - season.DiscountPercent/100))
		}
	}
	if t.DiscountPrice > 0 {
		return t.DiscountPrice
	}
	return round2(t.Price * (1 - t.DiscountPercent/100))
}

type quote struct {
	subtotal float64
	discount float64
	voucher  *domain.Voucher
}

// CreatePublic books a published tour for a site visitor.
func (s *BookingService) CreatePublic(ctx context.Context, input BookingInput) (*domain.Booking, error) {
	website, err := s.settings.Website(ctx)
	if err != nil {
		return nil, err
	}
	if !website.BookingEnabled {
		return nil, ErrBookingsDisabled
	}

	input = normalizeBookingInput(input)
	if err := validateBookingInput(input); err != nil {
		return nil, err
	}
	if input.TravelDate.Before(startOfDay(s.now())) {
		return nil, fmt.Errorf("%w: travelDate must not be in the past", ErrBookingValidation)
	}

	tour, err := s.tours.GetByID(ctx, input.TourID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}
	if tour.Status != domain.TourStatusPublished {
		return nil, ErrTourNotFound
	}
	if input.NumberOfTravelers > tour.MaxGroupSize {
		return nil, fmt.Errorf("%w: numberOfTravelers cannot exceed %d", ErrBookingValidation, tour.MaxGroupSize)
	}

	q, err := s.price(ctx, tour, input)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		UserID:            input.UserID,
		TourID:            &tour.ID,
		TourTitle:         tour.Title,
		CustomerName:      input.CustomerName,
		CustomerEmail:     input.CustomerEmail,
		CustomerPhone:     input.CustomerPhone,
		NumberOfTravelers: input.NumberOfTravelers,
		TravelDate:        input.TravelDate,
		TotalAmount:       round2(q.subtotal - q.discount),
		DiscountAmount:    q.discount,
		VoucherCode:       voucherCodeOf(q.voucher),
		Status:            domain.BookingPending,
		PaymentStatus:     domain.PaymentPending,
		SpecialRequests:   input.SpecialRequests,
	}
	stored, err := s.store(ctx, booking, q.voucher)
	if err != nil {
		return nil, err
	}
	s.afterCreate(ctx, stored, BookingSourcePublic)
	return stored, nil
}

// CreateAdmin records a booking on behalf of a customer. It starts approved
// and paid unless told otherwise.
func (s *BookingService) CreateAdmin(ctx context.Context, input AdminBookingInput) (*domain.Booking, error) {
	input.BookingInput = normalizeBookingInput(input.BookingInput)
	if err := validateBookingInput(input.BookingInput); err != nil {
		return nil, err
	}

	status := domain.BookingApproved
	if input.Status != nil {
		status = *input.Status
	}
	payment := domain.PaymentPaid
	if input.PaymentStatus != nil {
		payment = *input.PaymentStatus
	}
	if !status.Valid() || !payment.Valid() {
		return nil, fmt.Errorf("%w: invalid status or paymentStatus", ErrBookingValidation)
	}

	tour, err := s.tours.GetByID(ctx, input.TourID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}

	var q quote
	if input.TotalAmount == nil {
		q, err = s.price(ctx, tour, input.BookingInput)
		if err != nil {
			return nil, err
		}
	} else {
		if *input.TotalAmount < 0 {
			return nil, fmt.Errorf("%w: totalAmount must not be negative", ErrBookingValidation)
		}
		q.subtotal = *input.TotalAmount
		if input.DiscountAmount != nil {
			q.discount = round2(*input.DiscountAmount)
			q.subtotal += q.discount
		}
		if input.VoucherCode != "" {
			voucher, result, err := s.vouchers.evaluate(ctx, input.VoucherCode, &tour.ID, nil)
			if err != nil {
				return nil, err
			}
			if !result.Valid {
				return nil, fmt.Errorf("%w: %s", ErrVoucherRejected, result.Message)
			}
			q.voucher = voucher
		}
	}

	title := strings.TrimSpace(input.TourTitle)
	if title == "" {
		title = tour.Title
	}
	booking := &domain.Booking{
		UserID:            input.UserID,
		TourID:            &tour.ID,
		TourTitle:         title,
		CustomerName:      input.CustomerName,
		CustomerEmail:     input.CustomerEmail,
		CustomerPhone:     input.CustomerPhone,
		NumberOfTravelers: input.NumberOfTravelers,
		TravelDate:        input.TravelDate,
		TotalAmount:       round2(q.subtotal - q.discount),
		DiscountAmount:    q.discount,
		VoucherCode:       voucherCodeOf(q.voucher),
		Status:            status,
		PaymentStatus:     payment,
		SpecialRequests:   input.SpecialRequests,
		Notes:             strings.TrimSpace(input.Notes),
	}
	stored, err := s.store(ctx, booking, q.voucher)
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionCreate,
		Resource:   domain.ResourceBooking,
		ResourceID: stored.ID.String(),
		Details:    fmt.Sprintf("Created booking for %s on %q", stored.CustomerName, stored.TourTitle),
	})
	s.afterCreate(ctx, stored, BookingSourceAdmin)
	return stored, nil
}

// store inserts the booking, consuming one voucher use in the same
// transaction when a voucher applies.
func (s *BookingService) store(ctx context.Context, booking *domain.Booking, voucher *domain.Voucher) (*domain.Booking, error) {
	if voucher == nil {
		return s.bookings.Create(ctx, booking)
	}
	stored, err := s.bookings.CreateRedeeming(ctx, booking, voucher.ID)
	if errors.Is(err, ports.ErrVoucherUnavailable) {
		return nil, ErrVoucherLimitReached
	}
	return stored, err
}

// price computes the subtotal and validates the optional voucher against it,
// including the per-customer limit.
func (s *BookingService) price(ctx context.Context, tour *domain.Tour, input BookingInput) (quote, error) {
	q := quote{subtotal: round2(UnitPrice(tour, input.TravelDate) * float64(input.NumberOfTravelers))}
	if input.VoucherCode == "" {
		return q, nil
	}

	subtotal := q.subtotal
	voucher, result, err := s.vouchers.evaluate(ctx, input.VoucherCode, &tour.ID, &subtotal)
	if err != nil {
		return quote{}, err
	}
	if !result.Valid {
		return quote{}, fmt.Errorf("%w: %s", ErrVoucherRejected, result.Message)
	}
	if voucher.PerUserLimit != nil && *voucher.PerUserLimit > 0 {
		used, err := s.bookings.CountVoucherUses(ctx, voucher.Code, input.CustomerEmail)
		if err != nil {
			return quote{}, err
		}
		if used >= *voucher.PerUserLimit {
			return quote{}, fmt.Errorf("%w: Voucher usage limit reached for this customer", ErrVoucherRejected)
		}
	}
	q.voucher = voucher
	q.discount = *result.Discount
	return q, nil
}

func (s *BookingService) afterCreate(ctx context.Context, booking *domain.Booking, source string) {
	if booking.TourID != nil {
		if err := s.tours.IncrementBookings(ctx, *booking.TourID); err != nil {
			log.Printf("booking: failed to increment tour counter for %s: %v", booking.TourID, err)
		}
	}
	if s.observer != nil {
		s.observer.BookingCreated(source)
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyBooking(context.WithoutCancel(ctx), booking); err != nil {
			log.Printf("booking: %v for %s: %v", errNotificationFailed, booking.ID, err)
		}
	}
}

func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) List(ctx context.Context, filter domain.BookingFilter) (*Page[domain.Booking], error) {
	filter.Pagination = normalizePagination(filter.Pagination, defaultBookingLimit, maxBookingLimit)
	if err := validateBookingFilter(filter); err != nil {
		return nil, err
	}
	bookings, total, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newPage(bookings, total, filter.Pagination), nil
}

// Update applies the patch and writes exactly one audit entry. Status moves
// must follow the booking workflow; repeating the current status is allowed.
func (s *BookingService) Update(ctx context.Context, id uuid.UUID, patch BookingUpdate) (*domain.Booking, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *current
	changes := domain.ChangeSet{}
	reprice := false

	if patch.Status != nil && *patch.Status != current.Status {
		if !patch.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrBookingValidation, *patch.Status)
		}
		if !current.Status.CanTransition(*patch.Status) {
			return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, *patch.Status)
		}
		next.Status = *patch.Status
		changes["status"] = domain.FieldChange{From: current.Status, To: next.Status}
	}
	if patch.PaymentStatus != nil && *patch.PaymentStatus != current.PaymentStatus {
		if !patch.PaymentStatus.Valid() {
			return nil, fmt.Errorf("%w: unknown paymentStatus %q", ErrBookingValidation, *patch.PaymentStatus)
		}
		next.PaymentStatus = *patch.PaymentStatus
		changes["paymentStatus"] = domain.FieldChange{From: current.PaymentStatus, To: next.PaymentStatus}
	}
	if patch.NumberOfTravelers != nil && *patch.NumberOfTravelers != current.NumberOfTravelers {
		if *patch.NumberOfTravelers < 1 {
			return nil, fmt.Errorf("%w: numberOfTravelers must be at least 1", ErrBookingValidation)
		}
		next.NumberOfTravelers = *patch.NumberOfTravelers
		changes["numberOfTravelers"] = domain.FieldChange{From: current.NumberOfTravelers, To: next.NumberOfTravelers}
		reprice = true
	}
	if patch.TravelDate != nil && !patch.TravelDate.Equal(current.TravelDate) {
		next.TravelDate = *patch.TravelDate
		changes["travelDate"] = domain.FieldChange{From: current.TravelDate, To: next.TravelDate}
		reprice = true
	}
	if reprice {
		if err := s.reprice(ctx, current, &next, changes); err != nil {
			return nil, err
		}
	}
	applyString := func(field string, value *string, target *string) {
		if value == nil {
			return
		}
		trimmed := strings.TrimSpace(*value)
		if trimmed != *target {
			changes[field] = domain.FieldChange{From: *target, To: trimmed}
			*target = trimmed
		}
	}
	applyString("notes", patch.Notes, &next.Notes)
	applyString("customerName", patch.CustomerName, &next.CustomerName)
	applyString("customerEmail", patch.CustomerEmail, &next.CustomerEmail)
	applyString("customerPhone", patch.CustomerPhone, &next.CustomerPhone)
	applyString("specialRequests", patch.SpecialRequests, &next.SpecialRequests)

	if next.CustomerName == "" || next.CustomerPhone == "" {
		return nil, fmt.Errorf("%w: customer name and phone are required", ErrBookingValidation)
	}
	if _, err := mail.ParseAddress(next.CustomerEmail); err != nil {
		return nil, fmt.Errorf("%w: customerEmail is invalid", ErrBookingValidation)
	}

	stored, err := s.bookings.Update(ctx, &next)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	details := fmt.Sprintf("Updated booking for %s", stored.CustomerName)
	if change, ok := changes["status"]; ok {
		details = fmt.Sprintf("Changed booking status from %s to %s", change.From, change.To)
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionUpdate,
		Resource:   domain.ResourceBooking,
		ResourceID: stored.ID.String(),
		Details:    details,
		Changes:    changes,
	})
	return stored, nil
}

// reprice recomputes totals from the tour after a traveler or date change.
// The voucher keeps its original use; only its discount follows the new
// subtotal. Bookings whose tour is gone keep their totals.
func (s *BookingService) reprice(ctx context.Context, current, next *domain.Booking, changes domain.ChangeSet) error {
	if next.TourID == nil {
		return nil
	}
	tour, err := s.tours.GetByID(ctx, *next.TourID)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}

	subtotal := round2(UnitPrice(tour, next.TravelDate) * float64(next.NumberOfTravelers))
	discount := math.Min(current.DiscountAmount, subtotal)
	if next.VoucherCode != "" {
		voucher, err := s.vouchers.vouchers.FindActiveByCode(ctx, next.VoucherCode)
		switch {
		case err == nil:
			discount = ComputeDiscount(voucher, &subtotal)
		case !isNotFound(err):
			return err
		}
	}

	next.DiscountAmount = discount
	next.TotalAmount = round2(subtotal - discount)
	if next.TotalAmount != current.TotalAmount {
		changes["totalAmount"] = domain.FieldChange{From: current.TotalAmount, To: next.TotalAmount}
	}
	if next.DiscountAmount != current.DiscountAmount {
		changes["discountAmount"] = domain.FieldChange{From: current.DiscountAmount, To: next.DiscountAmount}
	}
	return nil
}

func (s *BookingService) Delete(ctx context.Context, id uuid.UUID) error {
	booking, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrBookingNotFound
		}
		return err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionDelete,
		Resource:   domain.ResourceBooking,
		ResourceID: id.String(),
		Details:    fmt.Sprintf("Deleted booking for %s on %q", booking.CustomerName, booking.TourTitle),
	})
	return nil
}

func (s *BookingService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	bookings, err := s.bookings.ListAll(ctx, domain.BookingFilter{UserID: &userID})
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, nil
}

func (s *BookingService) Export(ctx context.Context, format string, filter domain.BookingFilter) (*reports.Export, error) {
	switch format {
	case reports.FormatCSV, reports.FormatExcel, reports.FormatPDF:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExport, format)
	}
	if err := validateBookingFilter(filter); err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.exporter.Export(format, bookings)
}

func validateBookingFilter(filter domain.BookingFilter) error {
	if filter.Status != nil && !filter.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrBookingValidation, *filter.Status)
	}
	if filter.PaymentStatus != nil && !filter.PaymentStatus.Valid() {
		return fmt.Errorf("%w: unknown paymentStatus %q", ErrBookingValidation, *filter.PaymentStatus)
	}
	return nil
}

func normalizeBookingInput(in BookingInput) BookingInput {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.ToLower(strings.TrimSpace(in.CustomerEmail))
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.VoucherCode = normalizeVoucherCode(in.VoucherCode)
	in.SpecialRequests = strings.TrimSpace(in.SpecialRequests)
	if in.NumberOfTravelers == 0 {
		in.NumberOfTravelers = 1
	}
	return in
}

func validateBookingInput(in BookingInput) error {
	var problems []string
	if in.TourID == uuid.Nil {
		problems = append(problems, "tourId is required")
	}
	if missing := missingFields([][2]string{
		{"customerName", in.CustomerName},
		{"customerEmail", in.CustomerEmail},
		{"customerPhone", in.CustomerPhone},
	}); len(missing) > 0 {
		problems = append(problems, "missing "+strings.Join(missing, ", "))
	} else if _, err := mail.ParseAddress(in.CustomerEmail); err != nil {
		problems = append(problems, "customerEmail is invalid")
	}
	if in.NumberOfTravelers < 1 {
		problems = append(problems, "numberOfTravelers must be at least 1")
	}
	if in.TravelDate.IsZero() {
		problems = append(problems, "travelDate is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrBookingValidation, strings.Join(problems, "; "))
	}
	return nil
}

func voucherCodeOf(v *domain.Voucher) string {
	if v == nil {
		return ""
	}
	return v.Code
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
