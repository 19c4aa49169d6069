package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
	"github.com/batuwa-travels/travel-api/internal/util"
)

var (
	ErrTourValidation = errors.New("tour validation failed")
	ErrTourNotFound   = errors.New("tour not found")
)

const maxSlugAttempts = 50

type TourService struct {
	tours    ports.TourRepository
	activity *ActivityRecorder
}

func NewTourService(tours ports.TourRepository, activity *ActivityRecorder) *TourService {
	return &TourService{tours: tours, activity: activity}
}

func (s *TourService) List(ctx context.Context, filter domain.TourFilter) ([]domain.Tour, error) {
	if filter.Visibility == domain.VisibilityPublic {
		published := domain.TourStatusPublished
		filter.Status = &published
	}
	tours, err := s.tours.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if tours == nil {
		tours = []domain.Tour{}
	}
	return tours, nil
}

// Get resolves idOrSlug as a UUID first and as a slug otherwise. Public
// callers never see unpublished tours.
func (s *TourService) Get(ctx context.Context, idOrSlug string, visibility domain.Visibility) (*domain.Tour, error) {
	var (
		tour *domain.Tour
		err  error
	)
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		tour, err = s.tours.GetByID(ctx, id)
	} else {
		tour, err = s.tours.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(idOrSlug)))
	}
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}
	if visibility == domain.VisibilityPublic && tour.Status != domain.TourStatusPublished {
		return nil, ErrTourNotFound
	}
	return tour, nil
}

// View returns a published tour and counts the read. Every call increments
// the counter.
func (s *TourService) View(ctx context.Context, idOrSlug string) (*domain.Tour, error) {
	tour, err := s.Get(ctx, idOrSlug, domain.VisibilityPublic)
	if err != nil {
		return nil, err
	}
	if err := s.tours.IncrementViews(ctx, tour.ID); err != nil {
		if isNotFound(err) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}
	tour.Views++
	return tour, nil
}

func (s *TourService) Create(ctx context.Context, input domain.Tour) (*domain.Tour, error) {
	tour := input
	normalizeTour(&tour)
	if err := validateTour(&tour); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, tour.Title)
	if err != nil {
		return nil, err
	}
	tour.Slug = slug

	stored, err := s.tours.Create(ctx, &tour)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: slug %q already exists", ErrTourValidation, slug)
		}
		return nil, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionCreate,
		Resource:   domain.ResourceTour,
		ResourceID: stored.ID.String(),
		Details:    fmt.Sprintf("Created tour %q", stored.Title),
	})
	return stored, nil
}

// Update merges patch into the stored tour. The slug, counters and
// timestamps are never taken from the patch.
func (s *TourService) Update(ctx context.Context, id uuid.UUID, patch json.RawMessage) (*domain.Tour, error) {
	current, err := s.tours.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}

	next := *current
	if err := json.Unmarshal(patch, &next); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTourValidation, err.Error())
	}
	next.ID = current.ID
	next.Slug = current.Slug
	next.Views = current.Views
	next.Bookings = current.Bookings
	next.CreatedAt = current.CreatedAt

	normalizeTour(&next)
	if err := validateTour(&next); err != nil {
		return nil, err
	}

	stored, err := s.tours.Update(ctx, &next)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}

	changes := domain.ChangeSet{}
	if current.Status != stored.Status {
		changes["status"] = domain.FieldChange{From: current.Status, To: stored.Status}
	}
	if current.Price != stored.Price {
		changes["price"] = domain.FieldChange{From: current.Price, To: stored.Price}
	}
	if current.Title != stored.Title {
		changes["title"] = domain.FieldChange{From: current.Title, To: stored.Title}
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionUpdate,
		Resource:   domain.ResourceTour,
		ResourceID: stored.ID.String(),
		Details:    fmt.Sprintf("Updated tour %q", stored.Title),
		Changes:    changes,
	})
	return stored, nil
}

func (s *TourService) Delete(ctx context.Context, id uuid.UUID) error {
	tour, err := s.tours.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return ErrTourNotFound
		}
		return err
	}
	if err := s.tours.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrTourNotFound
		}
		return err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionDelete,
		Resource:   domain.ResourceTour,
		ResourceID: id.String(),
		Details:    fmt.Sprintf("Deleted tour %q", tour.Title),
	})
	return nil
}

func (s *TourService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := util.Slugify(title)
	if base == "" {
		base = "tour"
	}
	candidate := base
	for i := 2; i <= maxSlugAttempts; i++ {
		exists, err := s.tours.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}

func normalizeTour(t *domain.Tour) {
	t.Title = strings.TrimSpace(t.Title)
	t.Image = strings.TrimSpace(t.Image)
	t.Description = strings.TrimSpace(t.Description)
	t.Location = strings.TrimSpace(t.Location)
	t.MapURL = strings.TrimSpace(t.MapURL)
	if t.Difficulty == "" {
		t.Difficulty = domain.DifficultyModerate
	}
	if t.Status == "" {
		t.Status = domain.TourStatusDraft
	}
	if t.MaxGroupSize == 0 {
		t.MaxGroupSize = domain.DefaultMaxGroupSize
	}
	if t.MinGroupSize == 0 {
		t.MinGroupSize = domain.DefaultMinGroupSize
	}
	t.Photos = trimAll(t.Photos)
	t.Videos = trimAll(t.Videos)
	t.Includes = trimAll(t.Includes)
	t.Excludes = trimAll(t.Excludes)
	for i := range t.Itinerary {
		if t.Itinerary[i].DayNumber <= 0 {
			t.Itinerary[i].DayNumber = i + 1
		}
		t.Itinerary[i].Title = strings.TrimSpace(t.Itinerary[i].Title)
		t.Itinerary[i].Description = strings.TrimSpace(t.Itinerary[i].Description)
	}
}

// validateTour rejects the whole save on the first itinerary day missing a
// title or description.
func validateTour(t *domain.Tour) error {
	if missing := missingFields([][2]string{
		{"title", t.Title},
		{"img", t.Image},
		{"desc", t.Description},
		{"location", t.Location},
	}); len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrTourValidation, strings.Join(missing, ", "))
	}

	var problems []string
	if !t.Status.Valid() {
		problems = append(problems, "status must be one of draft, published, hidden")
	}
	if !t.Difficulty.Valid() {
		problems = append(problems, "difficulty must be one of easy, moderate, challenging, expert")
	}
	if t.Price < 0 || t.DiscountPrice < 0 {
		problems = append(problems, "prices must not be negative")
	}
	if t.DiscountPercent < 0 || t.DiscountPercent > 100 {
		problems = append(problems, "discountPercent must be between 0 and 100")
	}
	if t.Days < 0 || t.Nights < 0 {
		problems = append(problems, "days and nights must not be negative")
	}
	if t.MinGroupSize < 1 || t.MaxGroupSize < 1 {
		problems = append(problems, "group sizes must be at least 1")
	} else if t.MinGroupSize > t.MaxGroupSize {
		problems = append(problems, "minGroupSize cannot exceed maxGroupSize")
	}
	for _, sp := range t.SeasonalPricing {
		if sp.EndDate.Before(sp.StartDate) {
			problems = append(problems, fmt.Sprintf("seasonal pricing %q ends before it starts", sp.Season))
		}
		if sp.Price < 0 || sp.DiscountPercent < 0 || sp.DiscountPercent > 100 {
			problems = append(problems, fmt.Sprintf("seasonal pricing %q has invalid amounts", sp.Season))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrTourValidation, strings.Join(problems, "; "))
	}

	for i, day := range t.Itinerary {
		if day.Title == "" || day.Description == "" {
			return fmt.Errorf("%w: itinerary day %d requires both a title and a description", ErrTourValidation, i+1)
		}
	}
	return nil
}
