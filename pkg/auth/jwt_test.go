package auth

import (
	"testing"
	"time"
)

func TestIssueAndValidate(t *testing.T) {
	manager, err := NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, err := manager.Issue("user-1", []string{"admin", "user"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("subject = %q, want user-1", claims.Subject)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "admin" {
		t.Fatalf("unexpected roles: %v", claims.Roles)
	}
	if !claims.ExpiresAt.After(time.Now()) {
		t.Fatal("expected a future expiry")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	manager, err := NewTokenManager("test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	token, err := manager.Issue("user-1", nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := manager.Validate(token); err == nil {
		t.Fatal("expected an expired token to be rejected")
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer, _ := NewTokenManager("secret-a", time.Hour)
	verifier, _ := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue("user-1", nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Validate(token); err == nil {
		t.Fatal("expected a token signed with another secret to be rejected")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	manager, _ := NewTokenManager("test-secret", time.Hour)
	if _, err := manager.Validate("not-a-token"); err == nil {
		t.Fatal("expected a malformed token to be rejected")
	}
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour); err == nil {
		t.Fatal("expected an error for an empty secret")
	}
}
