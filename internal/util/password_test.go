package util

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	encoded, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("expected PHC encoded argon2id hash, got %q", encoded)
	}
	if !VerifyPassword("s3cret-pass", encoded) {
		t.Fatalf("expected password verification to succeed")
	}
	if VerifyPassword("wrong-pass", encoded) {
		t.Fatalf("expected password verification to fail for wrong password")
	}
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	a, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	b, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if a == b {
		t.Fatal("expected different encodings for the same password")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	for _, encoded := range []string{"", "plain", "$argon2i$v=19$m=1,t=1,p=1$a$b", "$argon2id$v=19$m=x$a$b"} {
		if VerifyPassword("anything", encoded) {
			t.Fatalf("expected malformed hash %q to be rejected", encoded)
		}
	}
}

func TestHashPasswordEmptyInput(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatalf("expected error when password empty")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); err == nil {
		t.Fatal("expected short password to be rejected")
	}
	if err := ValidatePassword(" padded-password "); err == nil {
		t.Fatal("expected padded password to be rejected")
	}
	if err := ValidatePassword("long-enough"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}
}
