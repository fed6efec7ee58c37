package middlewares

import (
	"net/http"

	"github.com/edustack/edustack-server/internal/http/errors"
	"github.com/edustack/edustack-server/internal/observability/logger"
	"github.com/edustack/edustack-server/internal/security/csrf"
)

// CSRFHeaderName es el header donde el cliente reenvía el token.
const CSRFHeaderName = "X-CSRF-Token"

// CSRFGateConfig configura el gate de admisión CSRF.
type CSRFGateConfig struct {
	Issuer     *csrf.Issuer
	CookieName string
	// Exempt decide si el path está exento del check. La tabla de rutas
	// lo deriva de su propia metadata (rutas públicas de auth), así el
	// gate y el router nunca se desincronizan.
	Exempt func(path string) bool
	// OnReject se invoca en cada rechazo (contador de métricas). Opcional.
	OnReject func()
}

// WithCSRFGate valida el esquema double-submit en métodos inseguros.
//
// Orden de admisión, en este orden exacto:
//  1. Paths exentos (endpoints públicos de auth) pasan siempre, incluso
//     con método inseguro.
//  2. Métodos seguros (GET, HEAD, OPTIONS) pasan sin check.
//  3. Todo lo demás requiere header + cookie + identidad consistentes;
//     si no, 403 con code EBADCSRFTOKEN.
func WithCSRFGate(cfg CSRFGateConfig) Middleware {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "x-csrf-token"
	}

	isSafe := func(m string) bool {
		switch m {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return true
		default:
			return false
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Exención por path exacto, antes que el check de método:
			// un POST a /api/auth/login no tiene todavía token que mandar.
			if cfg.Exempt != nil && cfg.Exempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			// 2. Métodos seguros no mutan estado.
			if isSafe(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			// 3. Double-submit: token del header contra secret de la cookie,
			// ligado a la identidad del caller.
			token := r.Header.Get(CSRFHeaderName)
			ck, _ := r.Cookie(cookieName)

			cookieSecret := ""
			if ck != nil {
				cookieSecret = ck.Value
			}

			if !cfg.Issuer.Verify(token, cookieSecret, Identity(r.Context())) {
				logger.From(r.Context()).Warn("csrf token rejected",
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.Bool("has_header", token != ""),
					logger.Bool("has_cookie", cookieSecret != ""),
				)
				if cfg.OnReject != nil {
					cfg.OnReject()
				}
				errors.WriteError(w, errors.ErrCSRFTokenInvalid)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
