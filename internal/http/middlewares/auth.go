package middlewares

import (
	"net/http"

	"github.com/edustack/edustack-server/internal/http/errors"
	"github.com/edustack/edustack-server/internal/security/token"
)

// WithSession parsea la cookie de sesión si existe y carga user/session ID
// en el contexto. Nunca rechaza: los handlers públicos siguen funcionando
// para anónimos. Un token inválido o expirado se trata como anónimo.
func WithSession(tokens *token.Manager) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ck, err := r.Cookie(token.SessionCookieName)
			if err != nil || ck.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Parse(ck.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := setSession(r.Context(), claims.UserID, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth corta con 401 si no hay usuario autenticado en el contexto.
// Debe ir después de WithSession en la cadena.
func RequireAuth() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetUserID(r.Context()) == "" {
				errors.WriteError(w, errors.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
