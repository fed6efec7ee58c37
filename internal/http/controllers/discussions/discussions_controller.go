// Package discussions contiene el controller de discusiones.
package discussions

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dto "github.com/edustack/edustack-server/internal/http/dto/discussions"
	httperrors "github.com/edustack/edustack-server/internal/http/errors"
	"github.com/edustack/edustack-server/internal/http/helpers"
	"github.com/edustack/edustack-server/internal/http/middlewares"
	svc "github.com/edustack/edustack-server/internal/http/services/discussions"
	"github.com/edustack/edustack-server/internal/store"
)

// Controller maneja los endpoints de /api/discussions.
type Controller struct {
	service svc.Service
}

// NewController crea el controller.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

func toResponse(d *store.Discussion) dto.Response {
	return dto.Response{
		ID:        d.ID,
		Title:     d.Title,
		Body:      d.Body,
		AuthorID:  d.AuthorID,
		CourseID:  d.CourseID,
		CreatedAt: d.CreatedAt,
	}
}

func toReplyResponse(rep *store.Reply) dto.ReplyResponse {
	return dto.ReplyResponse{
		ID:           rep.ID,
		DiscussionID: rep.DiscussionID,
		AuthorID:     rep.AuthorID,
		Body:         rep.Body,
		CreatedAt:    rep.CreatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrInvalidInput):
		httperrors.WriteError(w, httperrors.ErrValidation)
	case errors.Is(err, svc.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound)
	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}

// List maneja GET /api/discussions.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := c.service.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]dto.Response, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ListResponse{Discussions: out})
}

// Get maneja GET /api/discussions/{id}.
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	d, err := c.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toResponse(d))
}

// Create maneja POST /api/discussions.
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	d, err := c.service.Create(r.Context(), middlewares.GetUserID(r.Context()), req.Title, req.Body, req.CourseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, toResponse(d))
}

// Reply maneja POST /api/discussions/{id}/replies.
func (c *Controller) Reply(w http.ResponseWriter, r *http.Request) {
	var req dto.ReplyRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	rep, err := c.service.Reply(r.Context(), chi.URLParam(r, "id"), middlewares.GetUserID(r.Context()), req.Body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, toReplyResponse(rep))
}

// Replies maneja GET /api/discussions/{id}/replies.
func (c *Controller) Replies(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.Replies(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]dto.ReplyResponse, 0, len(list))
	for i := range list {
		out = append(out, toReplyResponse(&list[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, dto.RepliesResponse{Replies: out})
}
