// Package health contiene los DTOs del health check.
package health

// Response es la respuesta de GET /api/health.
//
// Env reporta PRESENCIA de variables de entorno, nunca sus valores.
// Detail solo se llena fuera de producción.
type Response struct {
	Status         string          `json:"status"`
	Database       string          `json:"database"`
	UserCount      int64           `json:"userCount"`
	Env            map[string]bool `json:"env"`
	AllowedOrigins []string        `json:"allowedOrigins"`
	Timestamp      string          `json:"timestamp"`
	Detail         string          `json:"detail,omitempty"`
}
