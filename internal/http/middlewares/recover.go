package middlewares

import (
	"net/http"
	"runtime/debug"

	"github.com/edustack/edustack-server/internal/http/errors"
	"github.com/edustack/edustack-server/internal/observability/logger"
)

// WithRecover convierte panics en respuestas 500 estructuradas.
// El stack trace va al log, nunca al cliente.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.From(r.Context()).Error("panic recovered",
						logger.Any("panic", rec),
						logger.String("stack", string(debug.Stack())),
					)
					errors.WriteError(w, errors.ErrInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
