// Package security contiene el controller del endpoint CSRF.
package security

import (
	"net/http"

	dto "github.com/edustack/edustack-server/internal/http/dto/security"
	httperrors "github.com/edustack/edustack-server/internal/http/errors"
	"github.com/edustack/edustack-server/internal/http/helpers"
	"github.com/edustack/edustack-server/internal/http/middlewares"
	svc "github.com/edustack/edustack-server/internal/http/services/security"
	"github.com/edustack/edustack-server/internal/observability/logger"
)

// CSRFController maneja GET /api/csrf-token.
type CSRFController struct {
	service svc.CSRFService
}

// NewCSRFController crea el controller.
func NewCSRFController(service svc.CSRFService) *CSRFController {
	return &CSRFController{service: service}
}

// GetToken emite un par token/cookie para la identidad actual.
// El secret va en cookie HttpOnly (el JS nunca lo ve); el token va en el
// body y el frontend lo reenvía en el header X-CSRF-Token.
func (c *CSRFController) GetToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("CSRFController.GetToken"))

	result, err := c.service.IssueToken(ctx, middlewares.Identity(ctx))
	if err != nil {
		log.Error("failed to issue csrf token", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     result.CookieName,
		Value:    result.CookieSecret,
		Path:     "/",
		HttpOnly: true,
		Secure:   result.Secure,
		SameSite: result.SameSite,
		MaxAge:   result.MaxAge,
	})

	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, http.StatusOK, dto.CSRFResponse{CSRFToken: result.Token})

	log.Debug("csrf token issued")
}
