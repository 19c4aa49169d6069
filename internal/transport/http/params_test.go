package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/service"
)

func newQueryContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestParsePagination(t *testing.T) {
	c := newQueryContext("/api/admin/bookings?page=3&limit=25")
	p, err := parsePagination(c)
	if err != nil {
		t.Fatalf("parsePagination returned error: %v", err)
	}
	if p.Page != 3 || p.Limit != 25 {
		t.Fatalf("expected page 3 limit 25, got %+v", p)
	}

	for _, target := range []string{"/x?page=0", "/x?page=abc", "/x?limit=-5"} {
		if _, err := parsePagination(newQueryContext(target)); err == nil {
			t.Fatalf("expected error for %s", target)
		}
	}
}

func TestParsePaginationDefaultsToZero(t *testing.T) {
	p, err := parsePagination(newQueryContext("/api/admin/users"))
	if err != nil {
		t.Fatalf("parsePagination returned error: %v", err)
	}
	if p.Page != 0 || p.Limit != 0 {
		t.Fatalf("expected zero pagination for service defaults, got %+v", p)
	}
}

func TestParseBoolAndUUIDQuery(t *testing.T) {
	c := newQueryContext("/x?featured=true&tour=not-a-uuid")
	featured, err := parseBoolQuery(c, "featured")
	if err != nil || featured == nil || !*featured {
		t.Fatalf("expected featured=true, got %v (err=%v)", featured, err)
	}
	missing, err := parseBoolQuery(c, "trending")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing flag, got %v (err=%v)", missing, err)
	}
	if _, err := parseUUIDQuery(c, "tour"); err == nil {
		t.Fatal("expected error for malformed id")
	}
	if _, err := parseBoolQuery(newQueryContext("/x?featured=maybe"), "featured"); err == nil {
		t.Fatal("expected error for non-boolean flag")
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2025-04-01")
	if err != nil {
		t.Fatalf("parseDate returned error: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.April || d.Day() != 1 {
		t.Fatalf("unexpected date %v", d)
	}
	if _, err := parseDate("2025-04-01T09:30:00Z"); err != nil {
		t.Fatalf("expected RFC3339 timestamp to parse, got %v", err)
	}
	if _, err := parseDate("01/04/2025"); err == nil {
		t.Fatal("expected error for unsupported layout")
	}
}

func TestPageEnvelope(t *testing.T) {
	page := &service.Page[string]{Items: []string{"a", "b"}, Total: 12, Page: 2, Limit: 2, TotalPages: 6}
	env := pageEnvelope("bookings", page)

	items, ok := env["bookings"].([]string)
	if !ok || len(items) != 2 {
		t.Fatalf("expected items under bookings key, got %#v", env["bookings"])
	}
	if env["total"] != 12 || env["totalPages"] != 6 || env["currentPage"] != 2 {
		t.Fatalf("unexpected envelope %#v", env)
	}
}

func TestParseTourFilter(t *testing.T) {
	c := newQueryContext("/api/tours?status=Published&featured=true&search=%20everest%20")
	filter, err := parseTourFilter(c, domain.VisibilityAdmin)
	if err != nil {
		t.Fatalf("parseTourFilter returned error: %v", err)
	}
	if filter.Status == nil || *filter.Status != domain.TourStatusPublished {
		t.Fatalf("expected published status, got %v", filter.Status)
	}
	if filter.Featured == nil || !*filter.Featured {
		t.Fatalf("expected featured filter, got %v", filter.Featured)
	}
	if filter.Search != "everest" {
		t.Fatalf("expected trimmed search, got %q", filter.Search)
	}
	if filter.Visibility != domain.VisibilityAdmin {
		t.Fatalf("expected admin visibility, got %v", filter.Visibility)
	}

	all, err := parseTourFilter(newQueryContext("/api/tours?status=all"), domain.VisibilityAdmin)
	if err != nil || all.Status != nil {
		t.Fatalf("expected status=all to disable filtering, got %v (err=%v)", all.Status, err)
	}

	if _, err := parseTourFilter(newQueryContext("/api/tours?status=archived"), domain.VisibilityAdmin); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestParseBookingFilter(t *testing.T) {
	c := newQueryContext("/api/admin/bookings?status=pending&paymentStatus=all&search=sita&page=2")
	filter, err := parseBookingFilter(c)
	if err != nil {
		t.Fatalf("parseBookingFilter returned error: %v", err)
	}
	if filter.Status == nil || *filter.Status != domain.BookingPending {
		t.Fatalf("expected pending status, got %v", filter.Status)
	}
	if filter.PaymentStatus != nil {
		t.Fatalf("expected paymentStatus=all to disable filtering, got %v", *filter.PaymentStatus)
	}
	if filter.Search != "sita" || filter.Page != 2 {
		t.Fatalf("unexpected filter %+v", filter)
	}
}

func TestParseReviewFilterIgnoresModerationFlagsForPublic(t *testing.T) {
	c := newQueryContext("/api/reviews?approved=false&hidden=true&featured=true")
	public, err := parseReviewFilter(c, domain.VisibilityPublic)
	if err != nil {
		t.Fatalf("parseReviewFilter returned error: %v", err)
	}
	if public.Approved != nil || public.Hidden != nil {
		t.Fatalf("expected moderation flags ignored for public callers, got %+v", public)
	}
	if public.Featured == nil || !*public.Featured {
		t.Fatalf("expected featured flag, got %v", public.Featured)
	}

	admin, err := parseReviewFilter(c, domain.VisibilityAdmin)
	if err != nil {
		t.Fatalf("parseReviewFilter returned error: %v", err)
	}
	if admin.Approved == nil || *admin.Approved {
		t.Fatalf("expected approved=false for admin, got %v", admin.Approved)
	}
	if admin.Hidden == nil || !*admin.Hidden {
		t.Fatalf("expected hidden=true for admin, got %v", admin.Hidden)
	}
}
