package auth

import (
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the password")
	}
	if !VerifyPassword("correct horse battery staple", hash) {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword("wrong password", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tokens, err := NewTokens("test-secret")
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	raw, err := tokens.Issue("someone@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	email, err := tokens.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if email != "someone@example.com" {
		t.Fatalf("subject mismatch: %q", email)
	}
}

func TestTokenExpires(t *testing.T) {
	tokens, err := NewTokens("test-secret")
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issued }
	raw, err := tokens.Issue("someone@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Still valid just inside the lifetime window.
	tokens.now = func() time.Time { return issued.Add(tokenLifetime - time.Minute) }
	if _, err := tokens.Verify(raw); err != nil {
		t.Fatalf("token expired too early: %v", err)
	}

	tokens.now = func() time.Time { return issued.Add(tokenLifetime + time.Minute) }
	if _, err := tokens.Verify(raw); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	a, _ := NewTokens("secret-a")
	b, _ := NewTokens("secret-b")
	raw, err := a.Issue("someone@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := b.Verify(raw); err == nil {
		t.Fatal("token signed with a different secret accepted")
	}
}

func TestTokenGarbageRejected(t *testing.T) {
	tokens, _ := NewTokens("test-secret")
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := tokens.Verify(raw); err == nil {
			t.Fatalf("garbage token %q accepted", raw)
		}
	}
}

func TestNewTokensRequiresSecret(t *testing.T) {
	if _, err := NewTokens("   "); err == nil {
		t.Fatal("blank secret accepted")
	}
}
