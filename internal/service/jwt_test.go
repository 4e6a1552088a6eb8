package service

import (
	"testing"
	"time"
)

func TestTokenIssuer_AccessTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, 7*24*time.Hour)

	token, err := issuer.GenerateAccessToken(42)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("Expected non-empty token")
	}

	userID, ok := issuer.VerifyAccessToken(token)
	if !ok {
		t.Fatal("Expected token to verify")
	}
	if userID != 42 {
		t.Errorf("Expected user ID 42, got %d", userID)
	}
}

func TestTokenIssuer_RejectsTamperedToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, 7*24*time.Hour)

	token, err := issuer.GenerateAccessToken(7)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, ok := issuer.VerifyAccessToken(tampered); ok {
		t.Error("Expected tampered token to be rejected")
	}
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-one", time.Hour, 7*24*time.Hour)
	other := NewTokenIssuer("secret-two", time.Hour, 7*24*time.Hour)

	token, err := issuer.GenerateAccessToken(7)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, ok := other.VerifyAccessToken(token); ok {
		t.Error("Expected token signed with a different secret to be rejected")
	}
}

func TestTokenIssuer_RejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute, 7*24*time.Hour)

	token, err := issuer.GenerateAccessToken(7)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, ok := issuer.VerifyAccessToken(token); ok {
		t.Error("Expected expired token to be rejected")
	}
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, 7*24*time.Hour)

	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		if _, ok := issuer.VerifyAccessToken(input); ok {
			t.Errorf("Expected %q to be rejected", input)
		}
	}
}

func TestTokenIssuer_RefreshTokensAreUnique(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, 7*24*time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := issuer.GenerateRefreshToken()
		if err != nil {
			t.Fatalf("GenerateRefreshToken failed: %v", err)
		}
		if token == "" {
			t.Fatal("Expected non-empty refresh token")
		}
		if seen[token] {
			t.Fatalf("Duplicate refresh token generated: %s", token)
		}
		seen[token] = true
	}
}
