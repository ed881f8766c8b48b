package jwtutil

import (
	"testing"
	"time"
)

func TestGenerateAndParse_RoundTrip(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken("secret", time.Hour, "alice")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.Username != "alice" {
		t.Fatalf("username mismatch: got %q want %q", claims.Username, "alice")
	}
	if claims.Subject != "alice" {
		t.Fatalf("subject mismatch: got %q want %q", claims.Subject, "alice")
	}
}

func TestParseToken_TamperedSignature(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken("secret", time.Hour, "alice")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := ParseToken("secret", tampered); err == nil {
		t.Fatal("expected error for tampered token, got nil")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken("right-secret", time.Hour, "alice")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := ParseToken("wrong-secret", token); err == nil {
		t.Fatal("expected error for wrong secret, got nil")
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken("secret", -1*time.Second, "alice")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := ParseToken("secret", token); err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
}
