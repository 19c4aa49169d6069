package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

var (
	ErrReviewValidation = errors.New("review validation failed")
	ErrReviewNotFound   = errors.New("review not found")
)

const defaultReviewRating = 5

type ReviewInput struct {
	Author  string
	Email   string
	Rating  int
	Message string
	TourID  *uuid.UUID
	UserID  *uuid.UUID
	Photos  []string
}

type ReviewUpdate struct {
	Approved      *bool
	Featured      *bool
	Hidden        *bool
	EditedMessage *string
}

type ReviewService struct {
	reviews  ports.ReviewRepository
	tours    ports.TourRepository
	activity *ActivityRecorder
}

func NewReviewService(reviews ports.ReviewRepository, tours ports.TourRepository, activity *ActivityRecorder) *ReviewService {
	return &ReviewService{reviews: reviews, tours: tours, activity: activity}
}

// Submit stores a new review. Visitor reviews wait for moderation; reviews
// entered by an authenticated admin are approved immediately.
func (s *ReviewService) Submit(ctx context.Context, input ReviewInput) (*domain.Review, error) {
	input.Author = strings.TrimSpace(input.Author)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Message = strings.TrimSpace(input.Message)
	if input.Rating == 0 {
		input.Rating = defaultReviewRating
	}

	var problems []string
	if missing := missingFields([][2]string{{"author", input.Author}, {"message", input.Message}}); len(missing) > 0 {
		problems = append(problems, "missing "+strings.Join(missing, ", "))
	}
	if err := validateRating(input.Rating); err != nil {
		problems = append(problems, "rating must be between 1 and 5")
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrReviewValidation, strings.Join(problems, "; "))
	}

	review := &domain.Review{
		Author:  input.Author,
		Email:   input.Email,
		Rating:  input.Rating,
		Message: input.Message,
		UserID:  input.UserID,
		Photos:  domain.StringList(trimAll(input.Photos)),
	}
	if input.TourID != nil {
		tour, err := s.tours.GetByID(ctx, *input.TourID)
		if err != nil {
			if isNotFound(err) {
				return nil, ErrTourNotFound
			}
			return nil, err
		}
		review.TourID = &tour.ID
		review.TourTitle = tour.Title
	}

	_, byAdmin := domain.ActorFromContext(ctx)
	review.Approved = byAdmin

	stored, err := s.reviews.Create(ctx, review)
	if err != nil {
		return nil, err
	}
	if byAdmin {
		s.activity.Record(ctx, ActivityEntry{
			Action:     domain.ActionCreate,
			Resource:   domain.ResourceReview,
			ResourceID: stored.ID.String(),
			Details:    fmt.Sprintf("Created review by %s", stored.Author),
		})
	}
	return stored, nil
}

func (s *ReviewService) List(ctx context.Context, filter domain.ReviewFilter) ([]domain.Review, error) {
	if filter.Visibility == domain.VisibilityPublic {
		approved, hidden := true, false
		filter.Approved = &approved
		filter.Hidden = &hidden
	}
	reviews, err := s.reviews.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

func (s *ReviewService) Get(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

// Update moderates a review. Setting EditedMessage marks the review as
// edited by the acting admin; an empty edit clears it.
func (s *ReviewService) Update(ctx context.Context, id uuid.UUID, patch ReviewUpdate) (*domain.Review, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *current
	changes := domain.ChangeSet{}
	applyFlag := func(field string, value *bool, target *bool) {
		if value != nil && *value != *target {
			changes[field] = domain.FieldChange{From: *target, To: *value}
			*target = *value
		}
	}
	applyFlag("approved", patch.Approved, &next.Approved)
	applyFlag("featured", patch.Featured, &next.Featured)
	applyFlag("hidden", patch.Hidden, &next.Hidden)

	if patch.EditedMessage != nil {
		edited := strings.TrimSpace(*patch.EditedMessage)
		if edited != current.EditedMessage {
			changes["editedMessage"] = domain.FieldChange{From: current.EditedMessage, To: edited}
		}
		next.EditedMessage = edited
		next.IsEdited = edited != ""
		next.EditedBy = nil
		if next.IsEdited {
			if actor, ok := domain.ActorFromContext(ctx); ok {
				adminID := actor.AdminID
				next.EditedBy = &adminID
			}
		}
	}

	stored, err := s.reviews.Update(ctx, &next)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionUpdate,
		Resource:   domain.ResourceReview,
		ResourceID: stored.ID.String(),
		Details:    fmt.Sprintf("Updated review by %s", stored.Author),
		Changes:    changes,
	})
	return stored, nil
}

func (s *ReviewService) Delete(ctx context.Context, id uuid.UUID) error {
	review, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrReviewNotFound
		}
		return err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionDelete,
		Resource:   domain.ResourceReview,
		ResourceID: id.String(),
		Details:    fmt.Sprintf("Deleted review by %s", review.Author),
	})
	return nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrReviewValidation)
	}
	return nil
}
