package security

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edustack/edustack-server/internal/security/csrf"

	svc "github.com/edustack/edustack-server/internal/http/services/security"
)

func newController(t *testing.T, prod bool) *CSRFController {
	t.Helper()
	iss, err := csrf.NewIssuer("test-secret")
	require.NoError(t, err)
	return NewCSRFController(svc.NewCSRFService(svc.CSRFDeps{Issuer: iss, Prod: prod}))
}

func TestGetTokenSetsCookieAndBody(t *testing.T) {
	c := newController(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil)
	rec := httptest.NewRecorder()
	c.GetToken(rec, req)

	res := rec.Result()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "no-store", res.Header.Get("Cache-Control"))

	var body struct {
		CSRFToken string `json:"csrfToken"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.NotEmpty(t, body.CSRFToken)

	var cookie *http.Cookie
	for _, ck := range res.Cookies() {
		if ck.Name == "x-csrf-token" {
			cookie = ck
		}
	}
	require.NotNil(t, cookie, "x-csrf-token cookie missing")
	require.True(t, cookie.HttpOnly, "cookie secret must be HttpOnly")
	require.Equal(t, 3600, cookie.MaxAge)
	require.False(t, cookie.Secure, "dev cookie should not be Secure")
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	// El token del body no repite el secret de la cookie.
	require.NotEqual(t, cookie.Value, body.CSRFToken)
}

func TestGetTokenProdCookieAttributes(t *testing.T) {
	c := newController(t, true)

	rec := httptest.NewRecorder()
	c.GetToken(rec, httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.True(t, cookies[0].Secure)
	require.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
}
