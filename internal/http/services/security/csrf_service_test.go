package security

import (
	"context"
	"net/http"
	"testing"

	"github.com/edustack/edustack-server/internal/security/csrf"
)

func newService(t *testing.T, prod bool) CSRFService {
	t.Helper()
	iss, err := csrf.NewIssuer("test-secret")
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	return NewCSRFService(CSRFDeps{Issuer: iss, Prod: prod})
}

func TestIssueTokenDevAttributes(t *testing.T) {
	s := newService(t, false)

	res, err := s.IssueToken(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if res.Token == "" || res.CookieSecret == "" {
		t.Fatal("token and cookie secret should be present")
	}
	if res.CookieName != "x-csrf-token" {
		t.Errorf("cookie name = %q", res.CookieName)
	}
	if res.MaxAge != 3600 {
		t.Errorf("max-age = %d, want 3600", res.MaxAge)
	}
	if res.Secure {
		t.Error("dev cookie should not be Secure")
	}
	if res.SameSite != http.SameSiteLaxMode {
		t.Error("dev cookie should be SameSite=Lax")
	}
}

func TestIssueTokenProdAttributes(t *testing.T) {
	s := newService(t, true)

	res, err := s.IssueToken(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !res.Secure {
		t.Error("prod cookie must be Secure")
	}
	if res.SameSite != http.SameSiteStrictMode {
		t.Error("prod cookie must be SameSite=Strict")
	}
}

func TestIssuedPairVerifies(t *testing.T) {
	iss, _ := csrf.NewIssuer("test-secret")
	s := NewCSRFService(CSRFDeps{Issuer: iss})

	res, _ := s.IssueToken(context.Background(), "session-1")
	if !iss.Verify(res.Token, res.CookieSecret, "session-1") {
		t.Fatal("issued pair should verify for the same identity")
	}
	if iss.Verify(res.Token, res.CookieSecret, "other") {
		t.Fatal("issued pair must not verify for a different identity")
	}
}
