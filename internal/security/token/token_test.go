package token

import (
	"errors"
	"testing"
	"time"
)

func TestSignAndParse(t *testing.T) {
	m := NewManager("test-secret", "edustack", time.Hour)

	signed, sessionID, err := m.Sign("user-1")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if sessionID == "" {
		t.Fatal("session id should be generated")
	}

	claims, err := m.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("user id = %q", claims.UserID)
	}
	if claims.SessionID != sessionID {
		t.Errorf("session id = %q, want %q", claims.SessionID, sessionID)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	a := NewManager("secret-a", "edustack", time.Hour)
	b := NewManager("secret-b", "edustack", time.Hour)

	signed, _, _ := a.Sign("user-1")
	if _, err := b.Parse(signed); err == nil {
		t.Fatal("token signed with another secret must not parse")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", "edustack", -time.Minute)

	signed, _, _ := m.Sign("user-1")
	_, err := m.Parse(signed)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", "edustack", time.Hour)
	if _, err := m.Parse("not.a.jwt"); err == nil {
		t.Fatal("garbage token must not parse")
	}
}
