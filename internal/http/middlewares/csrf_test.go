package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/edustack/edustack-server/internal/security/csrf"
)

func newGate(t *testing.T, exempt map[string]struct{}) Middleware {
	t.Helper()
	iss, err := csrf.NewIssuer("test-secret")
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	return WithCSRFGate(CSRFGateConfig{
		Issuer:     iss,
		CookieName: "x-csrf-token",
		Exempt: func(path string) bool {
			_, ok := exempt[path]
			return ok
		},
	})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGateAllowsSafeMethods(t *testing.T) {
	gate := newGate(t, nil)
	h := gate(okHandler())

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(method, "/api/courses", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s should pass without token, got %d", method, rec.Code)
		}
	}
}

func TestGateExemptPathBeatsUnsafeMethod(t *testing.T) {
	gate := newGate(t, map[string]struct{}{"/api/auth/login": {}})
	h := gate(okHandler())

	// POST a un path exento pasa sin token: el login todavía no tiene uno.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("exempt POST should pass, got %d", rec.Code)
	}

	// El mismo POST a un path NO exento se rechaza.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/courses", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-exempt POST without token should 403, got %d", rec.Code)
	}
}

func TestGateRejectionBody(t *testing.T) {
	gate := newGate(t, nil)
	h := gate(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/courses/1", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("rejection body should be JSON: %v", err)
	}
	if body.Code != "EBADCSRFTOKEN" {
		t.Errorf("code = %q, want EBADCSRFTOKEN", body.Code)
	}
	if body.Error == "" {
		t.Error("error message should be present")
	}
}

func TestGateAcceptsValidDoubleSubmit(t *testing.T) {
	iss, _ := csrf.NewIssuer("test-secret")
	gate := WithCSRFGate(CSRFGateConfig{Issuer: iss, CookieName: "x-csrf-token"})
	h := gate(okHandler())

	token, cookieSecret, _ := iss.Issue(csrf.AnonymousIdentity)

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", nil)
	req.Header.Set(CSRFHeaderName, token)
	req.AddCookie(&http.Cookie{Name: "x-csrf-token", Value: cookieSecret})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid double-submit should pass, got %d", rec.Code)
	}
}

func TestGateRejectsIdentityMismatch(t *testing.T) {
	iss, _ := csrf.NewIssuer("test-secret")
	gate := WithCSRFGate(CSRFGateConfig{Issuer: iss, CookieName: "x-csrf-token"})
	h := gate(okHandler())

	// Token emitido para un usuario, request llega anónimo.
	token, cookieSecret, _ := iss.Issue("user-1")

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", nil)
	req.Header.Set(CSRFHeaderName, token)
	req.AddCookie(&http.Cookie{Name: "x-csrf-token", Value: cookieSecret})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("identity mismatch should 403, got %d", rec.Code)
	}

	// Con la sesión correcta en el contexto sí pasa.
	req = httptest.NewRequest(http.MethodPost, "/api/feedback", nil)
	req.Header.Set(CSRFHeaderName, token)
	req.AddCookie(&http.Cookie{Name: "x-csrf-token", Value: cookieSecret})
	req = req.WithContext(setSession(req.Context(), "ignored", "user-1"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("matching identity should pass, got %d", rec.Code)
	}
}

func TestGateCountsRejections(t *testing.T) {
	iss, _ := csrf.NewIssuer("test-secret")
	var rejected int
	gate := WithCSRFGate(CSRFGateConfig{
		Issuer:   iss,
		OnReject: func() { rejected++ },
	})
	h := gate(okHandler())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	if rejected != 1 {
		t.Fatalf("rejected = %d, want 1", rejected)
	}
}
