package middlewares

import (
	"context"
	"net/http"
	"time"
)

// WithTimeout acota el contexto del request. Los handlers que respetan
// ctx (queries pgx, llamadas al proveedor LLM) abortan al vencer el plazo.
//
// El endpoint websocket NO debe pasar por aquí: sus conexiones son
// long-lived por diseño y el router lo monta fuera de esta cadena.
func WithTimeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
