// Package origin computes the set of allowed cross-origin callers.
//
// The same list feeds the HTTP CORS middleware and the WebSocket handshake
// check; both consumers MUST use this package so the two policies never
// diverge.
package origin

import "strings"

const (
	// DevFrontend is the local Vite dev server.
	DevFrontend = "http://localhost:5173"
	// ProdFrontend is the deployed frontend.
	ProdFrontend = "https://app.edustack.io"
)

// Policy holds the computed allow-list.
type Policy struct {
	allowed []string
}

// New builds the policy: the two fixed origins plus the configured override
// (FRONTEND_ORIGIN) when present. The result is ordered and never contains
// duplicates.
func New(override string) *Policy {
	allowed := []string{DevFrontend, ProdFrontend}

	override = strings.TrimRight(strings.TrimSpace(override), "/")
	if override != "" && !contains(allowed, override) {
		allowed = append(allowed, override)
	}
	return &Policy{allowed: allowed}
}

// Allowed retorna la lista completa (copia defensiva).
func (p *Policy) Allowed() []string {
	out := make([]string, len(p.allowed))
	copy(out, p.allowed)
	return out
}

// Contains verifica si un origin está permitido (case-insensitive,
// ignorando trailing slash).
func (p *Policy) Contains(origin string) bool {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		return false
	}
	for _, a := range p.allowed {
		if strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
