package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

var (
	ErrUserValidation = errors.New("user validation failed")
	ErrUserNotFound   = errors.New("user not found")
	ErrUserExists     = errors.New("user with this email already exists")
)

const (
	defaultUserLimit = 20
	maxUserLimit     = 100
)

type UserInput struct {
	Name        string
	Email       string
	Phone       string
	Role        domain.UserRole
	Avatar      string
	Preferences *domain.UserPreferences
}

type UserPatch struct {
	Name        *string
	Email       *string
	Phone       *string
	Avatar      *string
	Preferences *domain.UserPreferences
}

// UserDetail is a user together with the bookings linked to it.
type UserDetail struct {
	domain.User
	Bookings []domain.Booking `json:"bookings"`
}

type UserService struct {
	users    ports.UserRepository
	bookings ports.BookingRepository
	activity *ActivityRecorder
}

func NewUserService(users ports.UserRepository, bookings ports.BookingRepository, activity *ActivityRecorder) *UserService {
	return &UserService{users: users, bookings: bookings, activity: activity}
}

func (s *UserService) List(ctx context.Context, filter domain.UserFilter) (*Page[domain.User], error) {
	filter.Pagination = normalizePagination(filter.Pagination, defaultUserLimit, maxUserLimit)
	filter.Search = strings.TrimSpace(filter.Search)
	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newPage(users, total, filter.Pagination), nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserDetail, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListAll(ctx, domain.BookingFilter{UserID: &user.ID})
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return &UserDetail{User: *user, Bookings: bookings}, nil
}

func (s *UserService) Create(ctx context.Context, input UserInput) (*domain.User, error) {
	user := &domain.User{
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:       strings.TrimSpace(input.Phone),
		Role:        input.Role,
		Avatar:      strings.TrimSpace(input.Avatar),
		Preferences: domain.DefaultUserPreferences(),
	}
	if user.Role == "" {
		user.Role = domain.UserRoleUser
	}
	if input.Preferences != nil {
		user.Preferences = *input.Preferences
	}
	if err := validateUser(user); err != nil {
		return nil, err
	}

	stored, err := s.users.Create(ctx, user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionCreate,
		Resource:   domain.ResourceUser,
		ResourceID: stored.ID.String(),
		Details:    fmt.Sprintf("Created user %s", stored.Email),
	})
	return stored, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, patch UserPatch) (*domain.User, error) {
	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *current
	changes := domain.ChangeSet{}
	applyString := func(field string, value *string, target *string, lower bool) {
		if value == nil {
			return
		}
		v := strings.TrimSpace(*value)
		if lower {
			v = strings.ToLower(v)
		}
		if v != *target {
			changes[field] = domain.FieldChange{From: *target, To: v}
			*target = v
		}
	}
	applyString("name", patch.Name, &next.Name, false)
	applyString("email", patch.Email, &next.Email, true)
	applyString("phone", patch.Phone, &next.Phone, false)
	applyString("avatar", patch.Avatar, &next.Avatar, false)
	if patch.Preferences != nil && *patch.Preferences != current.Preferences {
		changes["preferences"] = domain.FieldChange{From: current.Preferences, To: *patch.Preferences}
		next.Preferences = *patch.Preferences
	}
	if err := validateUser(&next); err != nil {
		return nil, err
	}
	return s.save(ctx, &next, domain.ActionUpdate, fmt.Sprintf("Updated user %s", next.Email), changes)
}

// ToggleBlock flips the blocked flag and records block or unblock.
func (s *UserService) ToggleBlock(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *current
	next.IsBlocked = !current.IsBlocked

	action, verb := domain.ActionBlock, "Blocked"
	if !next.IsBlocked {
		action, verb = domain.ActionUnblock, "Unblocked"
	}
	changes := domain.ChangeSet{"isBlocked": {From: current.IsBlocked, To: next.IsBlocked}}
	return s.save(ctx, &next, action, fmt.Sprintf("%s user %s", verb, next.Email), changes)
}

func (s *UserService) SetRole(ctx context.Context, id uuid.UUID, role domain.UserRole) (*domain.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role must be user or admin", ErrUserValidation)
	}
	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *current
	next.Role = role
	changes := domain.ChangeSet{}
	if role != current.Role {
		changes["role"] = domain.FieldChange{From: current.Role, To: role}
	}
	return s.save(ctx, &next, domain.ActionUpdate, fmt.Sprintf("Changed role of %s to %s", next.Email, role), changes)
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionDelete,
		Resource:   domain.ResourceUser,
		ResourceID: id.String(),
		Details:    fmt.Sprintf("Deleted user %s", user.Email),
	})
	return nil
}

func (s *UserService) find(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) save(ctx context.Context, user *domain.User, action domain.ActivityAction, details string, changes domain.ChangeSet) (*domain.User, error) {
	stored, err := s.users.Update(ctx, user)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     action,
		Resource:   domain.ResourceUser,
		ResourceID: stored.ID.String(),
		Details:    details,
		Changes:    changes,
	})
	return stored, nil
}

func validateUser(u *domain.User) error {
	var problems []string
	if missing := missingFields([][2]string{{"name", u.Name}, {"email", u.Email}}); len(missing) > 0 {
		problems = append(problems, "missing "+strings.Join(missing, ", "))
	} else if _, err := mail.ParseAddress(u.Email); err != nil {
		problems = append(problems, "email is invalid")
	}
	if !u.Role.Valid() {
		problems = append(problems, "role must be user or admin")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrUserValidation, strings.Join(problems, "; "))
	}
	return nil
}
