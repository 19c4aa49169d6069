package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/batuwa-travels/travel-api/internal/domain"
)

var ErrNotConfigured = errors.New("mailer not configured")

// NotificationMailer sends staff alerts for new bookings and inquiries.
type NotificationMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	to       string
	useTLS   bool

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewNotificationMailer(host, port, username, password, from, to string, useTLS bool) *NotificationMailer {
	return &NotificationMailer{
		host:     strings.TrimSpace(host),
		port:     strings.TrimSpace(port),
		username: username,
		password: password,
		from:     strings.TrimSpace(from),
		to:       strings.TrimSpace(to),
		useTLS:   useTLS,
		send:     smtp.SendMail,
	}
}

// Enabled reports whether enough configuration exists to deliver mail.
func (m *NotificationMailer) Enabled() bool {
	return m != nil && m.host != "" && m.port != "" && m.from != "" && m.to != ""
}

func (m *NotificationMailer) NotifyBooking(ctx context.Context, b *domain.Booking) error {
	subject := fmt.Sprintf("New booking: %s", b.TourTitle)
	body := fmt.Sprintf(
		"A new booking was received.\n\nBooking: %s\nTour: %s\nCustomer: %s <%s>\nPhone: %s\nTravelers: %d\nTravel date: %s\nTotal: %.2f\nDiscount: %.2f\nVoucher: %s\n\nSpecial requests:\n%s\n",
		b.ID, sanitizeHeader(b.TourTitle), sanitizeHeader(b.CustomerName), sanitizeHeader(b.CustomerEmail),
		sanitizeHeader(b.CustomerPhone), b.NumberOfTravelers,
		b.TravelDate.Format("2006-01-02"), b.TotalAmount, b.DiscountAmount, valueOr(b.VoucherCode, "-"),
		valueOr(b.SpecialRequests, "-"),
	)
	return m.deliver(ctx, subject, body, b.CustomerEmail)
}

func (m *NotificationMailer) NotifyInquiry(ctx context.Context, inq *domain.Inquiry) error {
	subject := fmt.Sprintf("New inquiry: %s", inq.Subject)
	body := fmt.Sprintf(
		"A new inquiry was received.\n\nFrom: %s <%s>\nPhone: %s\nSubject: %s\n\n%s\n",
		sanitizeHeader(inq.Name), sanitizeHeader(inq.Email), valueOr(sanitizeHeader(inq.Phone), "-"),
		sanitizeHeader(inq.Subject), inq.Message,
	)
	return m.deliver(ctx, subject, body, inq.Email)
}

func (m *NotificationMailer) deliver(ctx context.Context, subject, body, replyTo string) error {
	if !m.Enabled() {
		return ErrNotConfigured
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	message := strings.Builder{}
	message.WriteString(fmt.Sprintf("From: %s\r\n", m.from))
	message.WriteString(fmt.Sprintf("To: %s\r\n", m.to))
	if replyTo = sanitizeHeader(replyTo); replyTo != "" {
		message.WriteString(fmt.Sprintf("Reply-To: %s\r\n", replyTo))
	}
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", sanitizeHeader(subject)))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	message.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	message.WriteString(crlf(body))

	addr := net.JoinHostPort(m.host, m.port)
	var auth smtp.Auth
	if m.username != "" || m.password != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return m.send(addr, auth, m.from, []string{m.to}, []byte(message.String()))
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(strings.TrimSpace(v))
}

// crlf rewrites every line ending in body as CRLF so no bare CR or LF
// reaches the SMTP transaction.
func crlf(body string) string {
	body = strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(body)
	return strings.ReplaceAll(body, "\n", "\r\n")
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
