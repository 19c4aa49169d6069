package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
	"github.com/batuwa-travels/travel-api/internal/util"
)

var (
	ErrAuthValidation     = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is deactivated")
)

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Admin     *domain.Admin
}

type AuthService struct {
	admins   ports.AdminRepository
	sessions ports.AdminSessionRepository
	tokens   *util.JWTManager
	activity *ActivityRecorder
	now      func() time.Time
}

func NewAuthService(admins ports.AdminRepository, sessions ports.AdminSessionRepository, tokens *util.JWTManager, activity *ActivityRecorder) *AuthService {
	return &AuthService{
		admins:   admins,
		sessions: sessions,
		tokens:   tokens,
		activity: activity,
		now:      time.Now,
	}
}

func (s *AuthService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Login checks credentials, opens a session and issues a token bound to it.
// Nothing is written when the password does not match.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrAuthValidation
	}

	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !util.VerifyPassword(password, admin.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, ErrAccountInactive
	}

	meta := domain.RequestMetaFromContext(ctx)
	now := s.now()
	session, err := s.sessions.Create(ctx, &domain.AdminSession{
		ID:        uuid.New(),
		AdminID:   admin.ID,
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
		ExpiresAt: now.Add(s.tokens.TTL()),
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, expiresAt, err := s.tokens.Generate(admin.ID, session.ID, admin.Username, string(admin.Role))
	if err != nil {
		s.abandonSession(ctx, session.ID)
		return nil, err
	}

	if err := s.admins.RecordLogin(ctx, admin.ID, now, meta.IP); err != nil {
		s.abandonSession(ctx, session.ID)
		return nil, err
	}
	admin.LastLogin = &now
	admin.LastLoginIP = meta.IP

	s.activity.RecordAs(ctx, actorFor(admin, session.ID), ActivityEntry{
		Action:     domain.ActionLogin,
		Resource:   domain.ResourceAdmin,
		ResourceID: admin.ID.String(),
		Details:    fmt.Sprintf("Admin %s logged in", admin.Username),
	})

	return &LoginResult{Token: token, ExpiresAt: expiresAt, Admin: admin}, nil
}

// abandonSession closes a session whose token never reached the client.
func (s *AuthService) abandonSession(ctx context.Context, id uuid.UUID) {
	if err := s.sessions.Deactivate(context.WithoutCancel(ctx), id); err != nil {
		log.Printf("auth: failed to close abandoned session %s: %v", id, err)
	}
}

// Authenticate resolves a bearer token to the acting admin. The token must
// reference an open session and the account must still be active.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Actor, *domain.Admin, error) {
	claims, err := s.tokens.Parse(strings.TrimSpace(token))
	if err != nil {
		return domain.Actor{}, nil, ErrUnauthorized
	}
	adminID, err := claims.AdminID()
	if err != nil {
		return domain.Actor{}, nil, ErrUnauthorized
	}
	sessionID, err := claims.SessionID()
	if err != nil {
		return domain.Actor{}, nil, ErrUnauthorized
	}

	session, err := s.sessions.FindActive(ctx, sessionID)
	if err != nil {
		if isNotFound(err) {
			return domain.Actor{}, nil, ErrUnauthorized
		}
		return domain.Actor{}, nil, err
	}
	if session.AdminID != adminID {
		return domain.Actor{}, nil, ErrUnauthorized
	}

	admin, err := s.admins.FindByID(ctx, adminID)
	if err != nil {
		if isNotFound(err) {
			return domain.Actor{}, nil, ErrUnauthorized
		}
		return domain.Actor{}, nil, err
	}
	if !admin.IsActive {
		return domain.Actor{}, nil, ErrAccountInactive
	}

	return actorFor(admin, session.ID), admin, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	actor, ok := domain.ActorFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if err := s.sessions.Deactivate(ctx, actor.SessionID); err != nil {
		return err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionLogout,
		Resource:   domain.ResourceAdmin,
		ResourceID: actor.AdminID.String(),
		Details:    fmt.Sprintf("Admin %s logged out", actor.Username),
	})
	return nil
}

func (s *AuthService) Me(ctx context.Context) (*domain.Admin, error) {
	actor, ok := domain.ActorFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	admin, err := s.admins.FindByID(ctx, actor.AdminID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return admin, nil
}

func actorFor(admin *domain.Admin, sessionID uuid.UUID) domain.Actor {
	return domain.Actor{
		AdminID:   admin.ID,
		Username:  admin.Username,
		Role:      admin.Role,
		SessionID: sessionID,
	}
}
