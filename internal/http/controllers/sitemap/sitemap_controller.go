// Package sitemap contiene el controller de /sitemap.xml.
package sitemap

import (
	"net/http"

	httperrors "github.com/edustack/edustack-server/internal/http/errors"
	svc "github.com/edustack/edustack-server/internal/http/services/sitemap"
	"github.com/edustack/edustack-server/internal/observability/logger"
)

// Controller maneja GET /sitemap.xml.
type Controller struct {
	service svc.Service
}

// NewController crea el controller.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Serve responde el sitemap en XML.
func (c *Controller) Serve(w http.ResponseWriter, r *http.Request) {
	out, err := c.service.Generate(r.Context())
	if err != nil {
		logger.From(r.Context()).Error("sitemap generation failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(out)
}
