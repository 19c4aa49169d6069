package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
	"github.com/batuwa-travels/travel-api/internal/util"
)

var (
	ErrAdminValidation = errors.New("admin validation failed")
	ErrAdminExists     = errors.New("username or email already in use")
	ErrAdminNotFound   = errors.New("admin not found")
	ErrSelfModify      = errors.New("cannot delete or deactivate your own account")
)

type AdminInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     domain.AdminRole
}

type AdminPatch struct {
	Email    *string
	FullName *string
	Role     *domain.AdminRole
	IsActive *bool
	Password *string
}

type AdminService struct {
	admins   ports.AdminRepository
	sessions ports.AdminSessionRepository
	activity *ActivityRecorder
}

func NewAdminService(admins ports.AdminRepository, sessions ports.AdminSessionRepository, activity *ActivityRecorder) *AdminService {
	return &AdminService{admins: admins, sessions: sessions, activity: activity}
}

func (s *AdminService) List(ctx context.Context) ([]domain.Admin, error) {
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, err
	}
	if admins == nil {
		admins = []domain.Admin{}
	}
	return admins, nil
}

func (s *AdminService) Create(ctx context.Context, input AdminInput) (*domain.Admin, error) {
	admin, err := s.create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionCreate,
		Resource:   domain.ResourceAdmin,
		ResourceID: admin.ID.String(),
		Details:    fmt.Sprintf("Created admin %s (%s)", admin.Username, admin.Role),
	})
	return admin, nil
}

func (s *AdminService) create(ctx context.Context, input AdminInput) (*domain.Admin, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	role := input.Role
	if role == "" {
		role = domain.AdminRoleAdmin
	}

	var problems []string
	if missing := missingFields([][2]string{{"username", username}, {"email", email}}); len(missing) > 0 {
		problems = append(problems, "missing "+strings.Join(missing, ", "))
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			problems = append(problems, "email is invalid")
		}
	}
	if !role.Valid() {
		problems = append(problems, "role must be one of super_admin, admin, editor")
	}
	if err := util.ValidatePassword(input.Password); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrAdminValidation, strings.Join(problems, "; "))
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	admin, err := s.admins.Create(ctx, &domain.Admin{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		FullName:     strings.TrimSpace(input.FullName),
		IsActive:     true,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAdminExists
		}
		return nil, err
	}
	return admin, nil
}

func (s *AdminService) Update(ctx context.Context, id uuid.UUID, patch AdminPatch) (*domain.Admin, error) {
	actor, _ := domain.ActorFromContext(ctx)
	if patch.IsActive != nil && !*patch.IsActive && actor.AdminID == id {
		return nil, ErrSelfModify
	}

	current, err := s.admins.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	update := domain.AdminUpdate{IsActive: patch.IsActive}
	changes := domain.ChangeSet{}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("%w: email is invalid", ErrAdminValidation)
		}
		update.Email = &email
		if email != current.Email {
			changes["email"] = domain.FieldChange{From: current.Email, To: email}
		}
	}
	if patch.FullName != nil {
		name := strings.TrimSpace(*patch.FullName)
		update.FullName = &name
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, fmt.Errorf("%w: role must be one of super_admin, admin, editor", ErrAdminValidation)
		}
		update.Role = patch.Role
		if *patch.Role != current.Role {
			changes["role"] = domain.FieldChange{From: current.Role, To: *patch.Role}
		}
	}
	if patch.IsActive != nil && *patch.IsActive != current.IsActive {
		changes["isActive"] = domain.FieldChange{From: current.IsActive, To: *patch.IsActive}
	}
	if patch.Password != nil {
		if err := util.ValidatePassword(*patch.Password); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrAdminValidation, err.Error())
		}
		hash, err := util.HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = &hash
		changes["password"] = domain.FieldChange{From: "***", To: "***"}
	}

	updated, err := s.admins.Update(ctx, id, update)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAdminNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrAdminExists
		}
		return nil, err
	}

	if (patch.IsActive != nil && !*patch.IsActive) || patch.Password != nil {
		if err := s.sessions.DeactivateByAdmin(ctx, id); err != nil {
			log.Printf("admin: failed to close sessions for %s: %v", id, err)
		}
	}

	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionUpdate,
		Resource:   domain.ResourceAdmin,
		ResourceID: id.String(),
		Details:    fmt.Sprintf("Updated admin %s", updated.Username),
		Changes:    changes,
	})
	return updated, nil
}

func (s *AdminService) Delete(ctx context.Context, id uuid.UUID) error {
	if actor, ok := domain.ActorFromContext(ctx); ok && actor.AdminID == id {
		return ErrSelfModify
	}
	admin, err := s.admins.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return ErrAdminNotFound
		}
		return err
	}
	if err := s.admins.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrAdminNotFound
		}
		return err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionDelete,
		Resource:   domain.ResourceAdmin,
		ResourceID: id.String(),
		Details:    fmt.Sprintf("Deleted admin %s", admin.Username),
	})
	return nil
}

// EnsureBootstrapAdmin creates a super_admin when the admin table is empty.
// It reports whether an account was created.
func (s *AdminService) EnsureBootstrapAdmin(ctx context.Context, username, email, password string) (bool, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return false, nil
	}
	count, err := s.admins.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if strings.TrimSpace(email) == "" {
		email = username + "@localhost.localdomain"
	}
	if _, err := s.create(ctx, AdminInput{
		Username: username,
		Email:    email,
		Password: password,
		FullName: "Super Admin",
		Role:     domain.AdminRoleSuperAdmin,
	}); err != nil {
		return false, err
	}
	return true, nil
}
