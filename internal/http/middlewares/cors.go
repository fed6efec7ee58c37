package middlewares

import (
	"net/http"
	"strings"

	"github.com/edustack/edustack-server/internal/origin"
)

// WithCORS aplica la política de orígenes compartida. La misma política
// alimenta el check de Origin del handshake websocket: un origen permitido
// aquí lo está también allá, y viceversa.
//
// Solo se refleja el Origin cuando está en la lista; con credenciales
// habilitadas nunca se responde "*".
func WithCORS(policy *origin.Policy) Middleware {
	allowMethods := strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}, ", ")
	allowHeaders := "Content-Type, Authorization, X-CSRF-Token, X-Request-ID"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			o := r.Header.Get("Origin")
			w.Header().Add("Vary", "Origin")

			if o != "" && policy.Contains(o) {
				w.Header().Set("Access-Control-Allow-Origin", o)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", allowMethods)
				w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
				w.Header().Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
