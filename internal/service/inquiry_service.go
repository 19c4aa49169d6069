package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

var (
	ErrInquiryValidation = errors.New("inquiry validation failed")
	ErrInquiryNotFound   = errors.New("inquiry not found")
)

const (
	defaultInquiryLimit = 20
	maxInquiryLimit     = 100
)

type InquiryNotifier interface {
	NotifyInquiry(ctx context.Context, inquiry *domain.Inquiry) error
}

type InquiryInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
	TourID  *uuid.UUID
}

type InquiryStatusUpdate struct {
	Status     domain.InquiryStatus
	AdminNotes *string
}

type InquiryService struct {
	inquiries ports.InquiryRepository
	activity  *ActivityRecorder
	notifier  InquiryNotifier
	now       func() time.Time
}

func NewInquiryService(inquiries ports.InquiryRepository, activity *ActivityRecorder, notifier InquiryNotifier) *InquiryService {
	return &InquiryService{
		inquiries: inquiries,
		activity:  activity,
		notifier:  notifier,
		now:       time.Now,
	}
}

func (s *InquiryService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Submit stores a visitor inquiry and notifies staff best-effort.
func (s *InquiryService) Submit(ctx context.Context, input InquiryInput) (*domain.Inquiry, error) {
	inquiry := &domain.Inquiry{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:   strings.TrimSpace(input.Phone),
		Subject: strings.TrimSpace(input.Subject),
		Message: strings.TrimSpace(input.Message),
		TourID:  input.TourID,
		Status:  domain.InquiryNew,
	}

	var problems []string
	if missing := missingFields([][2]string{
		{"name", inquiry.Name},
		{"email", inquiry.Email},
		{"message", inquiry.Message},
	}); len(missing) > 0 {
		problems = append(problems, "missing "+strings.Join(missing, ", "))
	} else if _, err := mail.ParseAddress(inquiry.Email); err != nil {
		problems = append(problems, "email is invalid")
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInquiryValidation, strings.Join(problems, "; "))
	}

	stored, err := s.inquiries.Create(ctx, inquiry)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyInquiry(context.WithoutCancel(ctx), stored); err != nil {
			log.Printf("inquiry: notification failed for %s: %v", stored.ID, err)
		}
	}
	return stored, nil
}

func (s *InquiryService) List(ctx context.Context, filter domain.InquiryFilter) (*Page[domain.Inquiry], error) {
	filter.Pagination = normalizePagination(filter.Pagination, defaultInquiryLimit, maxInquiryLimit)
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInquiryValidation, *filter.Status)
	}
	inquiries, total, err := s.inquiries.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newPage(inquiries, total, filter.Pagination), nil
}

func (s *InquiryService) Get(ctx context.Context, id uuid.UUID) (*domain.Inquiry, error) {
	inquiry, err := s.inquiries.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInquiryNotFound
		}
		return nil, err
	}
	return inquiry, nil
}

// UpdateStatus moves an inquiry to a new status. Marking it replied stamps
// the reply time and the acting admin.
func (s *InquiryService) UpdateStatus(ctx context.Context, id uuid.UUID, update InquiryStatusUpdate) (*domain.Inquiry, error) {
	if !update.Status.Valid() {
		return nil, fmt.Errorf("%w: status must be one of new, read, replied, archived", ErrInquiryValidation)
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *current
	changes := domain.ChangeSet{}
	if update.Status != current.Status {
		changes["status"] = domain.FieldChange{From: current.Status, To: update.Status}
	}
	next.Status = update.Status
	if update.AdminNotes != nil {
		notes := strings.TrimSpace(*update.AdminNotes)
		if notes != current.AdminNotes {
			changes["adminNotes"] = domain.FieldChange{From: current.AdminNotes, To: notes}
		}
		next.AdminNotes = notes
	}
	if update.Status == domain.InquiryReplied && current.Status != domain.InquiryReplied {
		repliedAt := s.now()
		next.RepliedAt = &repliedAt
		if actor, ok := domain.ActorFromContext(ctx); ok {
			adminID := actor.AdminID
			next.RepliedBy = &adminID
		}
	}

	stored, err := s.inquiries.Update(ctx, &next)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInquiryNotFound
		}
		return nil, err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionUpdate,
		Resource:   domain.ResourceInquiry,
		ResourceID: stored.ID.String(),
		Details:    fmt.Sprintf("Marked inquiry from %s as %s", stored.Name, stored.Status),
		Changes:    changes,
	})
	return stored, nil
}

func (s *InquiryService) Delete(ctx context.Context, id uuid.UUID) error {
	inquiry, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.inquiries.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrInquiryNotFound
		}
		return err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionDelete,
		Resource:   domain.ResourceInquiry,
		ResourceID: id.String(),
		Details:    fmt.Sprintf("Deleted inquiry from %s", inquiry.Name),
	})
	return nil
}
