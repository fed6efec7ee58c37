// Package courses contiene el controller de cursos.
package courses

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dto "github.com/edustack/edustack-server/internal/http/dto/courses"
	httperrors "github.com/edustack/edustack-server/internal/http/errors"
	"github.com/edustack/edustack-server/internal/http/helpers"
	"github.com/edustack/edustack-server/internal/http/middlewares"
	svc "github.com/edustack/edustack-server/internal/http/services/courses"
	"github.com/edustack/edustack-server/internal/store"
)

// Controller maneja los endpoints de /api/courses.
type Controller struct {
	service svc.Service
}

// NewController crea el controller.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

func toResponse(c *store.Course) dto.Response {
	return dto.Response{
		ID:          c.ID,
		Title:       c.Title,
		Slug:        c.Slug,
		Description: c.Description,
		AuthorID:    c.AuthorID,
		Published:   c.Published,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
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
	case errors.Is(err, svc.ErrNotOwner):
		httperrors.WriteError(w, httperrors.ErrForbidden)
	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}

// List maneja GET /api/courses. Anónimos ven solo publicados;
// autenticados ven también los no publicados.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	authed := middlewares.GetUserID(r.Context()) != ""

	list, err := c.service.List(r.Context(), authed, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]dto.Response, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ListResponse{Courses: out})
}

// Get maneja GET /api/courses/{id}.
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	course, err := c.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toResponse(course))
}

// Create maneja POST /api/courses.
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	course, err := c.service.Create(r.Context(), middlewares.GetUserID(r.Context()), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, toResponse(course))
}

// Update maneja PUT /api/courses/{id}.
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	course, err := c.service.Update(r.Context(), chi.URLParam(r, "id"), middlewares.GetUserID(r.Context()), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toResponse(course))
}

// Delete maneja DELETE /api/courses/{id}.
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), chi.URLParam(r, "id"), middlewares.GetUserID(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
