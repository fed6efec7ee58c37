// Package notifications contiene el service de notificaciones por usuario.
package notifications

import (
	"context"
	"errors"

	"github.com/edustack/edustack-server/internal/observability/logger"
	"github.com/edustack/edustack-server/internal/realtime"
	"github.com/edustack/edustack-server/internal/store"
)

var ErrNotFound = errors.New("notifications: not found")

// EventNotification es el tipo de evento websocket para notificaciones nuevas.
const EventNotification = "notification:new"

// Repo es el subconjunto del repo que el service usa.
type Repo interface {
	Create(ctx context.Context, n *store.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]store.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// Service expone las operaciones de notificaciones.
type Service interface {
	List(ctx context.Context, userID string, limit int) ([]store.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error

	// NotifyReply implementa discussions.Notifier.
	NotifyReply(ctx context.Context, userID string, d *store.Discussion, rep *store.Reply) error
}

// Deps son las dependencias del service.
type Deps struct {
	Repo      Repo
	Broadcast realtime.Broadcaster
}

type service struct {
	deps Deps
}

// NewService crea el service de notificaciones.
func NewService(deps Deps) Service {
	return &service{deps: deps}
}

func (s *service) List(ctx context.Context, userID string, limit int) ([]store.Notification, error) {
	return s.deps.Repo.ListByUser(ctx, userID, limit)
}

func (s *service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.deps.Repo.UnreadCount(ctx, userID)
}

func (s *service) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.deps.Repo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID string) error {
	return s.deps.Repo.MarkAllRead(ctx, userID)
}

// NotifyReply persiste la notificación y la empuja por el socket del usuario.
func (s *service) NotifyReply(ctx context.Context, userID string, d *store.Discussion, rep *store.Reply) error {
	n := &store.Notification{
		UserID: userID,
		Kind:   "discussion_reply",
		Title:  "Nueva respuesta en: " + d.Title,
		Body:   truncate(rep.Body, 140),
		Link:   "/discussions/" + d.ID,
	}
	if err := s.deps.Repo.Create(ctx, n); err != nil {
		logger.From(ctx).Error("notification create failed",
			logger.Component("notifications"),
			logger.UserID(userID),
			logger.Err(err),
		)
		return err
	}

	if s.deps.Broadcast != nil {
		s.deps.Broadcast.SendToUser(userID, EventNotification, map[string]any{
			"id":    n.ID,
			"kind":  n.Kind,
			"title": n.Title,
			"link":  n.Link,
		})
	}
	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
