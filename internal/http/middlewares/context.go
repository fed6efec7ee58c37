package middlewares

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/edustack/edustack-server/internal/security/csrf"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyUserID
	ctxKeySessionID
)

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, rid)
}

// GetRequestID retorna el request ID del contexto, o "" si no hay.
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

func setSession(ctx context.Context, userID, sessionID string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyUserID, userID)
	return context.WithValue(ctx, ctxKeySessionID, sessionID)
}

// GetUserID retorna el user ID autenticado, o "" para anónimos.
func GetUserID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyUserID).(string)
	return v
}

// GetSessionID retorna el session ID, o "" si no hay sesión.
func GetSessionID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeySessionID).(string)
	return v
}

// Identity resuelve la identidad a la que se liga el token CSRF.
// Orden de fallback: session ID, luego user ID, luego el sentinel anónimo.
func Identity(ctx context.Context) string {
	if sid := GetSessionID(ctx); sid != "" {
		return sid
	}
	if uid := GetUserID(ctx); uid != "" {
		return uid
	}
	return csrf.AnonymousIdentity
}

// clientIP extrae la IP real del cliente considerando proxies.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if xr := strings.TrimSpace(r.Header.Get("X-Real-IP")); xr != "" {
		return xr
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
