// Package notifications contiene el controller de notificaciones.
package notifications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dto "github.com/edustack/edustack-server/internal/http/dto/notifications"
	httperrors "github.com/edustack/edustack-server/internal/http/errors"
	"github.com/edustack/edustack-server/internal/http/helpers"
	"github.com/edustack/edustack-server/internal/http/middlewares"
	svc "github.com/edustack/edustack-server/internal/http/services/notifications"
	"github.com/edustack/edustack-server/internal/store"
)

// Controller maneja los endpoints de /api/notifications.
// Todas las rutas requieren sesión: el router las monta tras RequireAuth.
type Controller struct {
	service svc.Service
}

// NewController crea el controller.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

func toResponse(n *store.Notification) dto.Response {
	return dto.Response{
		ID:        n.ID,
		Kind:      n.Kind,
		Title:     n.Title,
		Body:      n.Body,
		Link:      n.Link,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// List maneja GET /api/notifications.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := c.service.List(r.Context(), middlewares.GetUserID(r.Context()), limit)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	out := make([]dto.Response, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ListResponse{Notifications: out})
}

// UnreadCount maneja GET /api/notifications/unread-count.
func (c *Controller) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := c.service.UnreadCount(r.Context(), middlewares.GetUserID(r.Context()))
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.UnreadCountResponse{Count: count})
}

// MarkRead maneja POST /api/notifications/{id}/read.
func (c *Controller) MarkRead(w http.ResponseWriter, r *http.Request) {
	err := c.service.MarkRead(r.Context(), chi.URLParam(r, "id"), middlewares.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, svc.ErrNotFound) {
			httperrors.WriteError(w, httperrors.ErrNotFound)
			return
		}
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead maneja POST /api/notifications/read-all.
func (c *Controller) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := c.service.MarkAllRead(r.Context(), middlewares.GetUserID(r.Context())); err != nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
