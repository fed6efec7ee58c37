package middlewares

import (
	"fmt"
	"net/http"

	"github.com/edustack/edustack-server/internal/http/errors"
	"github.com/edustack/edustack-server/internal/observability/logger"
	"github.com/edustack/edustack-server/internal/rate"
)

// WithRateLimit limita requests por IP de cliente usando el limiter dado.
// Si el backend del limiter falla (p.ej. Redis caído), el request pasa:
// degradar a abierto es preferible a tirar todo el tráfico.
func WithRateLimit(limiter rate.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.Allow(r.Context(), clientIP(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable, allowing request",
					logger.Err(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", res.Remaining))

			if !res.Allowed {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(res.RetryAfter.Seconds())+1))
				errors.WriteError(w, errors.ErrRateLimitExceeded)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
