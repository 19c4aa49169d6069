package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/reports"
)

type bookingFixture struct {
	svc      *BookingService
	bookings *memoryBookings
	tours    *memoryTours
	vouchers *memoryVouchers
	settings *memorySettings
	logs     *memoryActivityLogs
	observer *countingObserver
	notifier *recordingNotifier
	tour     domain.Tour
	voucher  domain.Voucher
}

func newBookingFixture(t *testing.T, configure func(*domain.Tour, *domain.Voucher)) *bookingFixture {
	t.Helper()
	tour := domain.Tour{
		ID:           uuid.New(),
		Title:        "Ella Odyssey",
		Slug:         "ella-odyssey",
		Price:        100,
		Status:       domain.TourStatusPublished,
		MaxGroupSize: 4,
		MinGroupSize: 1,
	}
	voucher := save20()
	if configure != nil {
		configure(&tour, &voucher)
	}

	f := &bookingFixture{
		bookings: newMemoryBookings(),
		tours:    newMemoryTours(tour),
		vouchers: newMemoryVouchers(voucher),
		settings: newMemorySettings(),
		logs:     &memoryActivityLogs{},
		observer: newCountingObserver(),
		notifier: &recordingNotifier{},
		tour:     tour,
		voucher:  voucher,
	}
	f.bookings.redeem = f.vouchers.Redeem
	recorder := NewActivityRecorder(f.logs, nil)
	vouchers := NewVoucherService(f.vouchers, recorder, f.observer)
	vouchers.SetClock(fixedClock)
	f.svc = NewBookingService(f.bookings, f.tours, vouchers, NewSettingsService(f.settings, recorder), recorder, BookingServiceConfig{
		Notifier: f.notifier,
		Observer: f.observer,
	})
	f.svc.SetClock(fixedClock)
	return f
}

func (f *bookingFixture) input(travelers int, code string) BookingInput {
	return BookingInput{
		TourID:            f.tour.ID,
		CustomerName:      "Anika Perera",
		CustomerEmail:     "Anika@Example.com",
		CustomerPhone:     "+94 77 123 4567",
		NumberOfTravelers: travelers,
		TravelDate:        time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		VoucherCode:       code,
	}
}

func TestPublicBookingAppliesVoucher(t *testing.T) {
	f := newBookingFixture(t, nil)

	booking, err := f.svc.CreatePublic(context.Background(), f.input(3, "save20"))
	if err != nil {
		t.Fatalf("expected booking to succeed, got %v", err)
	}
	if booking.DiscountAmount != 50 || booking.TotalAmount != 250 {
		t.Fatalf("expected discount 50 and total 250, got %v and %v", booking.DiscountAmount, booking.TotalAmount)
	}
	if booking.Status != domain.BookingPending || booking.PaymentStatus != domain.PaymentPending {
		t.Fatalf("expected pending/pending, got %s/%s", booking.Status, booking.PaymentStatus)
	}
	if booking.VoucherCode != "SAVE20" || booking.TourTitle != "Ella Odyssey" {
		t.Fatalf("unexpected booking %+v", booking)
	}
	if booking.CustomerEmail != "anika@example.com" {
		t.Fatalf("expected lowercased email, got %s", booking.CustomerEmail)
	}
	if got := f.vouchers.vouchers[f.voucher.ID].UsageCount; got != 1 {
		t.Fatalf("expected voucher usage 1, got %d", got)
	}
	if got := f.tours.tours[f.tour.ID].Bookings; got != 1 {
		t.Fatalf("expected tour booking counter 1, got %d", got)
	}
	if f.observer.bookings[BookingSourcePublic] != 1 {
		t.Fatalf("expected public booking counted, got %+v", f.observer.bookings)
	}
	if len(f.notifier.bookings) != 1 {
		t.Fatalf("expected one notification, got %d", len(f.notifier.bookings))
	}
	if entries := f.logs.snapshot(); len(entries) != 0 {
		t.Fatalf("expected no audit entries for visitor bookings, got %d", len(entries))
	}
}

func TestPublicBookingRules(t *testing.T) {
	f := newBookingFixture(t, nil)

	past := f.input(1, "")
	past.TravelDate = fixedNow.AddDate(0, 0, -1)
	if _, err := f.svc.CreatePublic(context.Background(), past); !errors.Is(err, ErrBookingValidation) {
		t.Fatalf("expected ErrBookingValidation for past date, got %v", err)
	}

	sameDay := f.input(1, "")
	sameDay.TravelDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if _, err := f.svc.CreatePublic(context.Background(), sameDay); err != nil {
		t.Fatalf("expected booking for today to succeed, got %v", err)
	}

	if _, err := f.svc.CreatePublic(context.Background(), f.input(5, "")); !errors.Is(err, ErrBookingValidation) {
		t.Fatalf("expected ErrBookingValidation above max group size, got %v", err)
	}

	missing := f.input(1, "")
	missing.CustomerPhone = ""
	_, err := f.svc.CreatePublic(context.Background(), missing)
	if !errors.Is(err, ErrBookingValidation) || !strings.Contains(err.Error(), "customerPhone") {
		t.Fatalf("expected missing phone error, got %v", err)
	}

	_, err = f.svc.CreatePublic(context.Background(), f.input(1, "BOGUS"))
	if !errors.Is(err, ErrVoucherRejected) || !strings.Contains(err.Error(), "Invalid voucher code") {
		t.Fatalf("expected voucher rejection, got %v", err)
	}
}

func TestPublicBookingUnpublishedTour(t *testing.T) {
	f := newBookingFixture(t, func(tour *domain.Tour, _ *domain.Voucher) {
		tour.Status = domain.TourStatusHidden
	})
	if _, err := f.svc.CreatePublic(context.Background(), f.input(1, "")); !errors.Is(err, ErrTourNotFound) {
		t.Fatalf("expected ErrTourNotFound, got %v", err)
	}
}

func TestPublicBookingDisabled(t *testing.T) {
	f := newBookingFixture(t, nil)
	f.settings.docs[domain.SettingKeyWebsite] = json.RawMessage(`{"siteName":"Batuwa","bookingEnabled":false}`)

	if _, err := f.svc.CreatePublic(context.Background(), f.input(1, "")); !errors.Is(err, ErrBookingsDisabled) {
		t.Fatalf("expected ErrBookingsDisabled, got %v", err)
	}
	if len(f.bookings.bookings) != 0 {
		t.Fatal("expected no booking to be stored")
	}
}

func TestPublicBookingPerCustomerLimit(t *testing.T) {
	f := newBookingFixture(t, func(_ *domain.Tour, v *domain.Voucher) {
		v.PerUserLimit = intPtr(1)
	})

	if _, err := f.svc.CreatePublic(context.Background(), f.input(1, "SAVE20")); err != nil {
		t.Fatalf("expected first booking to succeed, got %v", err)
	}
	second := f.input(1, "SAVE20")
	second.CustomerEmail = "ANIKA@example.com"
	if _, err := f.svc.CreatePublic(context.Background(), second); !errors.Is(err, ErrVoucherRejected) {
		t.Fatalf("expected ErrVoucherRejected for repeat customer, got %v", err)
	}

	other := f.input(1, "SAVE20")
	other.CustomerEmail = "someone.else@example.com"
	if _, err := f.svc.CreatePublic(context.Background(), other); err != nil {
		t.Fatalf("expected another customer to use the code, got %v", err)
	}
}

func TestPublicBookingLosesRedeemRace(t *testing.T) {
	f := newBookingFixture(t, nil)
	f.bookings.redeem = func(ctx context.Context, id uuid.UUID) (bool, error) { return false, nil }

	if _, err := f.svc.CreatePublic(context.Background(), f.input(2, "SAVE20")); !errors.Is(err, ErrVoucherLimitReached) {
		t.Fatalf("expected ErrVoucherLimitReached, got %v", err)
	}
	if len(f.bookings.bookings) != 0 {
		t.Fatal("expected no booking after losing the race")
	}
}

func TestFailedBookingInsertKeepsVoucherUse(t *testing.T) {
	f := newBookingFixture(t, nil)
	f.bookings.createErr = errors.New("db down")
	ctx, _ := adminContext(domain.AdminRoleAdmin)

	if _, err := f.svc.CreatePublic(context.Background(), f.input(3, "save20")); err == nil {
		t.Fatal("expected insert failure to surface")
	}
	admin := AdminBookingInput{BookingInput: f.input(2, "SAVE20")}
	if _, err := f.svc.CreateAdmin(ctx, admin); err == nil {
		t.Fatal("expected insert failure to surface for admin bookings")
	}
	if got := f.vouchers.vouchers[f.voucher.ID].UsageCount; got != f.voucher.UsageCount {
		t.Fatalf("expected usage count %d after failed inserts, got %d", f.voucher.UsageCount, got)
	}
	if len(f.observer.bookings) != 0 {
		t.Fatalf("expected no booking metric, got %v", f.observer.bookings)
	}
}

func TestUnitPrice(t *testing.T) {
	start := time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	tour := &domain.Tour{
		Price:           200,
		DiscountPercent: 10,
		SeasonalPricing: domain.SeasonalPricing{{Season: "peak", StartDate: start, EndDate: end, Price: 300, DiscountPercent: 5}},
	}

	if got := UnitPrice(tour, end); got != 285 {
		t.Fatalf("expected seasonal price 285 on the last day, got %v", got)
	}
	if got := UnitPrice(tour, end.AddDate(0, 0, 1)); got != 180 {
		t.Fatalf("expected discounted list price 180, got %v", got)
	}
	tour.DiscountPrice = 150
	if got := UnitPrice(tour, start.AddDate(0, 0, -1)); got != 150 {
		t.Fatalf("expected fixed discount price 150, got %v", got)
	}
}

func TestAdminBookingDefaults(t *testing.T) {
	f := newBookingFixture(t, nil)
	ctx, _ := adminContext(domain.AdminRoleAdmin)

	booking, err := f.svc.CreateAdmin(ctx, AdminBookingInput{BookingInput: f.input(2, "")})
	if err != nil {
		t.Fatalf("expected admin booking to succeed, got %v", err)
	}
	if booking.Status != domain.BookingApproved || booking.PaymentStatus != domain.PaymentPaid {
		t.Fatalf("expected approved/paid, got %s/%s", booking.Status, booking.PaymentStatus)
	}
	if booking.TotalAmount != 200 {
		t.Fatalf("expected computed total 200, got %v", booking.TotalAmount)
	}

	total := 999.5
	supplied, err := f.svc.CreateAdmin(ctx, AdminBookingInput{BookingInput: f.input(2, "SAVE20"), TotalAmount: &total})
	if err != nil {
		t.Fatalf("expected booking with supplied total, got %v", err)
	}
	if supplied.TotalAmount != 999.5 || supplied.VoucherCode != "SAVE20" {
		t.Fatalf("expected supplied total and voucher, got %+v", supplied)
	}
	if got := f.vouchers.vouchers[f.voucher.ID].UsageCount; got != 1 {
		t.Fatalf("expected voucher redeemed once, got %d", got)
	}
	if f.observer.bookings[BookingSourceAdmin] != 2 {
		t.Fatalf("expected two admin bookings counted, got %+v", f.observer.bookings)
	}
	if got := len(f.logs.snapshot()); got != 2 {
		t.Fatalf("expected one audit entry per admin booking, got %d", got)
	}
}

func TestBookingStatusTransitions(t *testing.T) {
	f := newBookingFixture(t, nil)
	ctx, _ := adminContext(domain.AdminRoleAdmin)
	booking, err := f.svc.CreatePublic(context.Background(), f.input(1, ""))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	status := func(s domain.BookingStatus) BookingUpdate { return BookingUpdate{Status: &s} }

	if _, err := f.svc.Update(ctx, booking.ID, status(domain.BookingCompleted)); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected pending->completed to be rejected, got %v", err)
	}
	if got := len(f.logs.snapshot()); got != 0 {
		t.Fatalf("expected no audit entry for a rejected update, got %d", got)
	}

	approved, err := f.svc.Update(ctx, booking.ID, status(domain.BookingApproved))
	if err != nil {
		t.Fatalf("expected pending->approved, got %v", err)
	}
	if approved.Status != domain.BookingApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}
	entries := f.logs.snapshot()
	if len(entries) != 1 {
		t.Fatalf("expected exactly one audit entry, got %d", len(entries))
	}
	change, ok := entries[0].Changes["status"]
	if !ok || change.From != domain.BookingPending || change.To != domain.BookingApproved {
		t.Fatalf("expected status change pending->approved, got %+v", entries[0].Changes)
	}

	if _, err := f.svc.Update(ctx, booking.ID, status(domain.BookingApproved)); err != nil {
		t.Fatalf("expected same status to be a no-op, got %v", err)
	}
	if _, err := f.svc.Update(ctx, booking.ID, status(domain.BookingCancelled)); err != nil {
		t.Fatalf("expected approved->cancelled, got %v", err)
	}
	if _, err := f.svc.Update(ctx, booking.ID, status(domain.BookingApproved)); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected cancelled to be terminal, got %v", err)
	}
	if got := len(f.logs.snapshot()); got != 3 {
		t.Fatalf("expected one entry per successful update, got %d", got)
	}
}

func TestBookingUpdateRepricesTravelers(t *testing.T) {
	f := newBookingFixture(t, nil)
	ctx, _ := adminContext(domain.AdminRoleAdmin)
	booking, err := f.svc.CreatePublic(context.Background(), f.input(2, "SAVE20"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if booking.TotalAmount != 160 || booking.DiscountAmount != 40 {
		t.Fatalf("expected 160 after 40 off, got total=%v discount=%v", booking.TotalAmount, booking.DiscountAmount)
	}

	travelers := 3
	updated, err := f.svc.Update(ctx, booking.ID, BookingUpdate{NumberOfTravelers: &travelers})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DiscountAmount != 50 || updated.TotalAmount != 250 {
		t.Fatalf("expected capped discount 50 and total 250, got discount=%v total=%v", updated.DiscountAmount, updated.TotalAmount)
	}
	entries := f.logs.snapshot()
	change, ok := entries[len(entries)-1].Changes["totalAmount"]
	if !ok || change.From != 160.0 || change.To != 250.0 {
		t.Fatalf("expected totalAmount change 160->250, got %+v", entries[len(entries)-1].Changes)
	}
	if got := f.vouchers.vouchers[f.voucher.ID].UsageCount; got != 1 {
		t.Fatalf("expected repricing to leave usage at 1, got %d", got)
	}

	notes := "called customer"
	same, err := f.svc.Update(ctx, booking.ID, BookingUpdate{Notes: &notes})
	if err != nil {
		t.Fatalf("update notes: %v", err)
	}
	if same.TotalAmount != 250 {
		t.Fatalf("expected notes-only update to keep total 250, got %v", same.TotalAmount)
	}
}

func TestBookingListAndExport(t *testing.T) {
	f := newBookingFixture(t, nil)
	for i := 0; i < 3; i++ {
		if _, err := f.svc.CreatePublic(context.Background(), f.input(1, "")); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, err := f.svc.List(context.Background(), domain.BookingFilter{Pagination: domain.Pagination{Page: 2, Limit: 2}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 3 || page.TotalPages != 2 || len(page.Items) != 1 || page.Page != 2 {
		t.Fatalf("unexpected page %+v", page)
	}

	bogus := domain.BookingStatus("lost")
	if _, err := f.svc.List(context.Background(), domain.BookingFilter{Status: &bogus}); !errors.Is(err, ErrBookingValidation) {
		t.Fatalf("expected ErrBookingValidation for unknown status, got %v", err)
	}

	export, err := f.svc.Export(context.Background(), reports.FormatCSV, domain.BookingFilter{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasSuffix(export.FileName, ".csv") || strings.Count(string(export.Data), "\n") != 4 {
		t.Fatalf("expected header plus three rows, got %q", export.Data)
	}
	if _, err := f.svc.Export(context.Background(), "docx", domain.BookingFilter{}); !errors.Is(err, ErrUnsupportedExport) {
		t.Fatalf("expected ErrUnsupportedExport, got %v", err)
	}
}
