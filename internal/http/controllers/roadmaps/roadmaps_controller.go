// Package roadmaps contiene el controller de rutas de aprendizaje.
package roadmaps

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/edustack/edustack-server/internal/http/dto/roadmaps"
	httperrors "github.com/edustack/edustack-server/internal/http/errors"
	"github.com/edustack/edustack-server/internal/http/helpers"
	svc "github.com/edustack/edustack-server/internal/http/services/roadmaps"
	"github.com/edustack/edustack-server/internal/store"
)

// Controller maneja los endpoints de /api/roadmaps.
type Controller struct {
	service svc.Service
}

// NewController crea el controller.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

func toResponse(m *store.Roadmap) dto.Response {
	steps := json.RawMessage(m.Steps)
	if len(steps) == 0 {
		steps = json.RawMessage("[]")
	}
	return dto.Response{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		Description: m.Description,
		Steps:       steps,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrInvalidInput):
		httperrors.WriteError(w, httperrors.ErrValidation)
	case errors.Is(err, svc.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound)
	case errors.Is(err, svc.ErrSlugTaken):
		httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("slug already in use"))
	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}

// List maneja GET /api/roadmaps.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]dto.Response, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ListResponse{Roadmaps: out})
}

// Get maneja GET /api/roadmaps/{idOrSlug}.
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	m, err := c.service.Get(r.Context(), chi.URLParam(r, "idOrSlug"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toResponse(m))
}

// Create maneja POST /api/roadmaps.
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	m, err := c.service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, toResponse(m))
}

// Delete maneja DELETE /api/roadmaps/{id}.
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
