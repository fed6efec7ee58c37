// Package feedback contiene el controller de feedback.
package feedback

import (
	"errors"
	"net/http"
	"strconv"

	dto "github.com/edustack/edustack-server/internal/http/dto/feedback"
	httperrors "github.com/edustack/edustack-server/internal/http/errors"
	"github.com/edustack/edustack-server/internal/http/helpers"
	"github.com/edustack/edustack-server/internal/http/middlewares"
	svc "github.com/edustack/edustack-server/internal/http/services/feedback"
	"github.com/edustack/edustack-server/internal/store"
)

// Controller maneja los endpoints de /api/feedback.
type Controller struct {
	service svc.Service
}

// NewController crea el controller.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

func toResponse(f *store.Feedback) dto.Response {
	return dto.Response{
		ID:        f.ID,
		UserID:    f.UserID,
		Subject:   f.Subject,
		Body:      f.Body,
		Rating:    f.Rating,
		CreatedAt: f.CreatedAt,
	}
}

// Submit maneja POST /api/feedback. Acepta anónimos.
func (c *Controller) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	f, err := c.service.Submit(r.Context(), middlewares.GetUserID(r.Context()), req.Subject, req.Body, req.Rating)
	if err != nil {
		if errors.Is(err, svc.ErrInvalidInput) {
			httperrors.WriteError(w, httperrors.ErrValidation)
			return
		}
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, toResponse(f))
}

// List maneja GET /api/feedback.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := c.service.List(r.Context(), limit)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	out := make([]dto.Response, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ListResponse{Feedback: out})
}
