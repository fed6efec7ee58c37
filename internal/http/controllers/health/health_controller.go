// Package health contiene el controller del health check.
package health

import (
	"net/http"

	"github.com/edustack/edustack-server/internal/http/helpers"
	svc "github.com/edustack/edustack-server/internal/http/services/health"
)

// Controller maneja GET /api/health.
type Controller struct {
	service svc.Service
}

// NewController crea el controller.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Check reporta el estado del servidor. Responde 200 cuando la base
// contesta y 503 cuando no; el body es el mismo reporte en ambos casos.
func (c *Controller) Check(w http.ResponseWriter, r *http.Request) {
	resp := c.service.Check(r.Context())

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	helpers.WriteJSON(w, status, resp)
}
