package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/batuwa-travels/travel-api/internal/domain"
)

func newAdminFixture() (*AdminService, *memoryAdmins, *memorySessions, *memoryActivityLogs) {
	admins := newMemoryAdmins()
	sessions := newMemorySessions()
	logs := &memoryActivityLogs{}
	return NewAdminService(admins, sessions, NewActivityRecorder(logs, nil)), admins, sessions, logs
}

func TestAdminCreateValidates(t *testing.T) {
	svc, _, _, logs := newAdminFixture()
	ctx, _ := adminContext(domain.AdminRoleSuperAdmin)

	_, err := svc.Create(ctx, AdminInput{Username: "", Email: "nope", Password: "short", Role: "owner"})
	if !errors.Is(err, ErrAdminValidation) {
		t.Fatalf("expected ErrAdminValidation, got %v", err)
	}
	for _, want := range []string{"username", "email is invalid", "role", "password"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to mention %q, got %v", want, err)
		}
	}
	if entries := logs.snapshot(); len(entries) != 0 {
		t.Fatalf("expected no audit entries, got %d", len(entries))
	}
}

func TestAdminCreateDefaultsRoleAndAudits(t *testing.T) {
	svc, _, _, logs := newAdminFixture()
	ctx, _ := adminContext(domain.AdminRoleSuperAdmin)

	admin, err := svc.Create(ctx, AdminInput{Username: "ravi", Email: "Ravi@Batuwa.Travel", Password: "long enough"})
	if err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
	if admin.Role != domain.AdminRoleAdmin || admin.Email != "ravi@batuwa.travel" || !admin.IsActive {
		t.Fatalf("unexpected admin %+v", admin)
	}
	if admin.PasswordHash == "" || admin.PasswordHash == "long enough" {
		t.Fatal("expected password to be hashed")
	}
	entries := logs.snapshot()
	if len(entries) != 1 || entries[0].Action != domain.ActionCreate || entries[0].Resource != domain.ResourceAdmin {
		t.Fatalf("expected one create entry, got %+v", entries)
	}
}

func TestAdminCannotDeactivateOrDeleteSelf(t *testing.T) {
	svc, admins, _, _ := newAdminFixture()
	ctx, actor := adminContext(domain.AdminRoleSuperAdmin)
	admins.admins[actor.AdminID] = domain.Admin{ID: actor.AdminID, Username: actor.Username, Role: domain.AdminRoleSuperAdmin, IsActive: true}

	inactive := false
	if _, err := svc.Update(ctx, actor.AdminID, AdminPatch{IsActive: &inactive}); !errors.Is(err, ErrSelfModify) {
		t.Fatalf("expected ErrSelfModify on deactivate, got %v", err)
	}
	if err := svc.Delete(ctx, actor.AdminID); !errors.Is(err, ErrSelfModify) {
		t.Fatalf("expected ErrSelfModify on delete, got %v", err)
	}
}

func TestAdminPasswordResetClosesSessions(t *testing.T) {
	svc, admins, sessions, logs := newAdminFixture()
	ctx, _ := adminContext(domain.AdminRoleSuperAdmin)
	target, err := svc.Create(ctx, AdminInput{Username: "lee", Email: "lee@batuwa.travel", Password: "first password", Role: domain.AdminRoleEditor})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	session, _ := sessions.Create(context.Background(), &domain.AdminSession{ID: target.ID, AdminID: target.ID})

	password := "second password"
	role := domain.AdminRoleAdmin
	updated, err := svc.Update(ctx, target.ID, AdminPatch{Password: &password, Role: &role})
	if err != nil {
		t.Fatalf("expected update to succeed, got %v", err)
	}
	if updated.Role != domain.AdminRoleAdmin {
		t.Fatalf("expected role admin, got %s", updated.Role)
	}
	if _, err := sessions.FindActive(context.Background(), session.ID); err == nil {
		t.Fatal("expected session to be closed after password change")
	}
	if admins.admins[target.ID].PasswordHash == "second password" {
		t.Fatal("expected stored password to be hashed")
	}

	entries := logs.snapshot()
	last := entries[len(entries)-1]
	if last.Changes["password"].To != "***" {
		t.Fatalf("expected masked password change, got %+v", last.Changes)
	}
	if last.Changes["role"].To != domain.AdminRoleAdmin {
		t.Fatalf("expected role change recorded, got %+v", last.Changes)
	}
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	svc, admins, _, _ := newAdminFixture()

	created, err := svc.EnsureBootstrapAdmin(context.Background(), "root", "", "bootstrap-pass")
	if err != nil || !created {
		t.Fatalf("expected bootstrap admin to be created, got %v %v", created, err)
	}
	if len(admins.admins) != 1 {
		t.Fatalf("expected one admin, got %d", len(admins.admins))
	}
	for _, admin := range admins.admins {
		if admin.Role != domain.AdminRoleSuperAdmin {
			t.Fatalf("expected super_admin, got %s", admin.Role)
		}
	}

	created, err = svc.EnsureBootstrapAdmin(context.Background(), "root2", "", "bootstrap-pass")
	if err != nil || created {
		t.Fatalf("expected no second bootstrap admin, got %v %v", created, err)
	}
}
