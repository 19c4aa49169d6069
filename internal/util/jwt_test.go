package util

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTManagerGenerateAndParse(t *testing.T) {
	manager := NewJWTManager("top-secret", time.Minute)

	adminID := uuid.New()
	sessionID := uuid.New()
	token, expiresAt, err := manager.Generate(adminID, sessionID, "root", "super_admin")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token to be non-empty")
	}
	if expiresAt.Before(time.Now()) {
		t.Fatalf("expected expiry in the future")
	}

	claims, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	gotAdmin, err := claims.AdminID()
	if err != nil || gotAdmin != adminID {
		t.Fatalf("expected admin id %s, got %s (%v)", adminID, gotAdmin, err)
	}
	gotSession, err := claims.SessionID()
	if err != nil || gotSession != sessionID {
		t.Fatalf("expected session id %s, got %s (%v)", sessionID, gotSession, err)
	}
	if claims.Username != "root" || claims.Role != "super_admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTManagerParseExpiredToken(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	manager.now = func() time.Time { return issued }
	token, _, err := manager.Generate(uuid.New(), uuid.New(), "root", "admin")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	manager.now = time.Now

	if _, err := manager.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestJWTManagerRejectsForeignSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Hour)
	verifier := NewJWTManager("secret-b", time.Hour)
	token, _, err := issuer.Generate(uuid.New(), uuid.New(), "root", "admin")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, err := verifier.Parse(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}
