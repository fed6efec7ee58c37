// Package security contiene los services de seguridad (CSRF).
package security

import (
	"context"
	"net/http"

	"github.com/edustack/edustack-server/internal/observability/logger"
	"github.com/edustack/edustack-server/internal/security/csrf"
)

// CSRFService genera pares token/cookie para el esquema double-submit.
type CSRFService interface {
	IssueToken(ctx context.Context, identity string) (*CSRFResult, error)
}

// CSRFResult contiene el token y los atributos de la cookie del secret.
type CSRFResult struct {
	Token        string
	CookieSecret string
	CookieName   string
	MaxAge       int
	Secure       bool
	SameSite     http.SameSite
}

// CSRFDeps son las dependencias del service.
type CSRFDeps struct {
	Issuer     *csrf.Issuer
	CookieName string
	TTLSeconds int
	Prod       bool
}

type csrfService struct {
	deps CSRFDeps
}

// NewCSRFService crea el service. El Issuer ya validó el secret al arrancar.
func NewCSRFService(deps CSRFDeps) CSRFService {
	if deps.CookieName == "" {
		deps.CookieName = "x-csrf-token"
	}
	if deps.TTLSeconds <= 0 {
		deps.TTLSeconds = 3600
	}
	return &csrfService{deps: deps}
}

// IssueToken genera un token ligado a la identidad del caller.
// En prod la cookie es Secure + SameSite=Strict; en dev SameSite=Lax
// para no romper el flujo con el frontend en otro puerto.
func (s *csrfService) IssueToken(ctx context.Context, identity string) (*CSRFResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("security.csrf"),
	)

	token, cookieSecret, err := s.deps.Issuer.Issue(identity)
	if err != nil {
		log.Error("failed to issue csrf token", logger.Err(err))
		return nil, err
	}

	sameSite := http.SameSiteLaxMode
	if s.deps.Prod {
		sameSite = http.SameSiteStrictMode
	}

	log.Debug("csrf token issued")
	return &CSRFResult{
		Token:        token,
		CookieSecret: cookieSecret,
		CookieName:   s.deps.CookieName,
		MaxAge:       s.deps.TTLSeconds,
		Secure:       s.deps.Prod,
		SameSite:     sameSite,
	}, nil
}
