// Package pdfchat contiene el controller del chat sobre PDFs.
package pdfchat

import (
	"errors"
	"net/http"

	dto "github.com/edustack/edustack-server/internal/http/dto/pdfchat"
	httperrors "github.com/edustack/edustack-server/internal/http/errors"
	"github.com/edustack/edustack-server/internal/http/helpers"
	svc "github.com/edustack/edustack-server/internal/http/services/pdfchat"
	"github.com/edustack/edustack-server/internal/observability/logger"
)

// Controller maneja POST /api/pdf-chat.
type Controller struct {
	service svc.Service
}

// NewController crea el controller.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Ask reenvía la pregunta al proveedor LLM. Sin proveedor configurado
// responde 503, no 500: es una degradación esperada, no un bug.
func (c *Controller) Ask(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	answer, err := c.service.Ask(r.Context(), req.DocumentID, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrNotConfigured):
			httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithDetail("pdf chat is not configured"))
		case errors.Is(err, svc.ErrInvalidInput):
			httperrors.WriteError(w, httperrors.ErrValidation)
		case errors.Is(err, svc.ErrDocNotFound):
			httperrors.WriteError(w, httperrors.ErrNotFound)
		case errors.Is(err, svc.ErrUpstream):
			logger.From(r.Context()).Error("pdf chat upstream failed", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrServiceUnavailable)
		default:
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.ChatResponse{Answer: answer})
}
