package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
)

func TestNotifyBookingComposesMessage(t *testing.T) {
	m := NewNotificationMailer("smtp.example.com", "587", "", "", "noreply@example.com", "staff@example.com", false)
	var gotAddr string
	var gotTo []string
	var gotMsg string
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	b := &domain.Booking{
		ID:                uuid.New(),
		TourTitle:         "Everest Base Camp",
		CustomerName:      "Asha",
		CustomerEmail:     "asha@example.com",
		NumberOfTravelers: 2,
		TravelDate:        time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
		TotalAmount:       1800,
	}
	if err := m.NotifyBooking(context.Background(), b); err != nil {
		t.Fatalf("NotifyBooking: %v", err)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Fatalf("expected smtp.example.com:587, got %s", gotAddr)
	}
	if len(gotTo) != 1 || gotTo[0] != "staff@example.com" {
		t.Fatalf("unexpected recipients %v", gotTo)
	}
	for _, want := range []string{"Subject: New booking: Everest Base Camp", "Reply-To: asha@example.com", "Travel date: 2026-11-02", "Total: 1800.00"} {
		if !strings.Contains(gotMsg, want) {
			t.Fatalf("expected message to contain %q, got %s", want, gotMsg)
		}
	}
}

func TestNotifyInquiryStripsHeaderInjection(t *testing.T) {
	m := NewNotificationMailer("smtp.example.com", "25", "", "", "noreply@example.com", "staff@example.com", false)
	var gotMsg string
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotMsg = string(msg)
		return nil
	}

	inq := &domain.Inquiry{Name: "Ravi", Email: "ravi@example.com", Subject: "Hi\r\nBcc: evil@example.com", Message: "hello"}
	if err := m.NotifyInquiry(context.Background(), inq); err != nil {
		t.Fatalf("NotifyInquiry: %v", err)
	}
	if strings.Contains(gotMsg, "\r\nBcc:") {
		t.Fatalf("expected header injection to be neutralised, got %q", gotMsg)
	}
	if !strings.Contains(gotMsg, "Subject: Hi  Bcc: evil@example.com\r\n") {
		t.Fatalf("expected subject to stay on one line, got %q", gotMsg)
	}
	assertCRLF(t, gotMsg)
}

func TestNotifyInquiryNormalizesMessageLineEndings(t *testing.T) {
	m := NewNotificationMailer("smtp.example.com", "25", "", "", "noreply@example.com", "staff@example.com", false)
	var gotMsg string
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotMsg = string(msg)
		return nil
	}

	inq := &domain.Inquiry{Name: "Ravi", Email: "ravi@example.com", Subject: "Dates", Message: "line one\r\nline two\rline three\nend"}
	if err := m.NotifyInquiry(context.Background(), inq); err != nil {
		t.Fatalf("NotifyInquiry: %v", err)
	}
	if !strings.Contains(gotMsg, "line one\r\nline two\r\nline three\r\nend") {
		t.Fatalf("expected CRLF line endings in message, got %q", gotMsg)
	}
	assertCRLF(t, gotMsg)
}

func assertCRLF(t *testing.T, msg string) {
	t.Helper()
	for i := 0; i < len(msg); i++ {
		switch msg[i] {
		case '\r':
			if i+1 >= len(msg) || msg[i+1] != '\n' {
				t.Fatalf("expected CR only before LF at offset %d, got %q", i, msg)
			}
		case '\n':
			if i == 0 || msg[i-1] != '\r' {
				t.Fatalf("expected LF only after CR at offset %d, got %q", i, msg)
			}
		}
	}
}

func TestDisabledMailer(t *testing.T) {
	m := NewNotificationMailer("", "", "", "", "", "", false)
	if m.Enabled() {
		t.Fatalf("expected mailer to be disabled")
	}
	err := m.NotifyInquiry(context.Background(), &domain.Inquiry{})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
