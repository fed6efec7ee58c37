package csrf

import (
	"strings"
	"testing"
)

func TestNewIssuerRequiresSecret(t *testing.T) {
	if _, err := NewIssuer(""); err != ErrMissingSecret {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
	if _, err := NewIssuer("   "); err != ErrMissingSecret {
		t.Fatalf("expected ErrMissingSecret for blank secret, got %v", err)
	}
	if _, err := NewIssuer("super-secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	iss, _ := NewIssuer("super-secret")

	token, cookieSecret, err := iss.Issue("session-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !strings.Contains(token, ".") {
		t.Fatalf("token should be salt.mac, got %q", token)
	}

	if !iss.Verify(token, cookieSecret, "session-123") {
		t.Fatal("valid token should verify")
	}
}

func TestVerifyRejectsWrongIdentity(t *testing.T) {
	iss, _ := NewIssuer("super-secret")
	token, cookieSecret, _ := iss.Issue("session-123")

	if iss.Verify(token, cookieSecret, "session-other") {
		t.Fatal("token bound to one identity must not verify for another")
	}
}

func TestVerifyRejectsWrongCookieSecret(t *testing.T) {
	iss, _ := NewIssuer("super-secret")
	token, _, _ := iss.Issue("session-123")
	_, otherSecret, _ := iss.Issue("session-123")

	if iss.Verify(token, otherSecret, "session-123") {
		t.Fatal("token must be bound to its own cookie secret")
	}
}

func TestVerifyRejectsMalformedInput(t *testing.T) {
	iss, _ := NewIssuer("super-secret")
	_, cookieSecret, _ := iss.Issue("s")

	cases := []struct {
		name   string
		token  string
		secret string
	}{
		{"empty token", "", cookieSecret},
		{"empty secret", "abc.def", ""},
		{"no separator", "abcdef", cookieSecret},
		{"empty salt", ".mac", cookieSecret},
		{"empty mac", "salt.", cookieSecret},
	}
	for _, tc := range cases {
		if iss.Verify(tc.token, tc.secret, "s") {
			t.Errorf("%s: should not verify", tc.name)
		}
	}
}

func TestAnonymousIdentityFallback(t *testing.T) {
	iss, _ := NewIssuer("super-secret")

	// Issue con identidad vacía equivale al sentinel anónimo.
	token, cookieSecret, _ := iss.Issue("")
	if !iss.Verify(token, cookieSecret, AnonymousIdentity) {
		t.Fatal("empty identity should bind to the anonymous sentinel")
	}
	if !iss.Verify(token, cookieSecret, "") {
		t.Fatal("verify with empty identity should also use the sentinel")
	}
}

func TestDifferentKeysDoNotCrossVerify(t *testing.T) {
	a, _ := NewIssuer("key-a")
	b, _ := NewIssuer("key-b")

	token, cookieSecret, _ := a.Issue("id")
	if b.Verify(token, cookieSecret, "id") {
		t.Fatal("token signed with one key must not verify under another")
	}
}
