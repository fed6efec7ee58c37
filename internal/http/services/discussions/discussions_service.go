// Package discussions contiene el service de discusiones. Las respuestas
// disparan un evento realtime y notificaciones para los participantes.
package discussions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/edustack/edustack-server/internal/observability/logger"
	"github.com/edustack/edustack-server/internal/realtime"
	"github.com/edustack/edustack-server/internal/store"
)

var (
	ErrInvalidInput = errors.New("discussions: invalid input")
	ErrNotFound     = errors.New("discussions: not found")
)

// EventReplyCreated es el tipo de evento websocket para respuestas nuevas.
const EventReplyCreated = "discussion:reply"

// Repo es el subconjunto del repo que el service usa.
type Repo interface {
	List(ctx context.Context, limit int) ([]store.Discussion, error)
	Get(ctx context.Context, id string) (*store.Discussion, error)
	Create(ctx context.Context, d *store.Discussion) error
	AddReply(ctx context.Context, rep *store.Reply) error
	ListReplies(ctx context.Context, discussionID string) ([]store.Reply, error)
	Participants(ctx context.Context, discussionID string) ([]string, error)
}

// Notifier crea las notificaciones del fan-out de respuestas.
type Notifier interface {
	NotifyReply(ctx context.Context, userID string, d *store.Discussion, rep *store.Reply) error
}

// Service expone las operaciones de discusiones.
type Service interface {
	List(ctx context.Context, limit int) ([]store.Discussion, error)
	Get(ctx context.Context, id string) (*store.Discussion, error)
	Create(ctx context.Context, authorID, title, body, courseID string) (*store.Discussion, error)
	Reply(ctx context.Context, discussionID, authorID, body string) (*store.Reply, error)
	Replies(ctx context.Context, discussionID string) ([]store.Reply, error)
}

// Deps son las dependencias del service. Broadcaster llega por constructor,
// nunca colgado del request.
type Deps struct {
	Repo      Repo
	Notifier  Notifier
	Broadcast realtime.Broadcaster
}

type service struct {
	deps Deps
}

// NewService crea el service de discusiones.
func NewService(deps Deps) Service {
	return &service{deps: deps}
}

func (s *service) List(ctx context.Context, limit int) ([]store.Discussion, error) {
	return s.deps.Repo.List(ctx, limit)
}

func (s *service) Get(ctx context.Context, id string) (*store.Discussion, error) {
	d, err := s.deps.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *service) Create(ctx context.Context, authorID, title, body, courseID string) (*store.Discussion, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("discussions"), logger.Op("Create"))

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidInput
	}

	d := &store.Discussion{
		Title:    title,
		Body:     strings.TrimSpace(body),
		AuthorID: authorID,
		CourseID: courseID,
	}
	if err := s.deps.Repo.Create(ctx, d); err != nil {
		log.Error("discussion create failed", logger.Err(err))
		return nil, err
	}

	log.Info("discussion created", logger.DiscussionID(d.ID))
	return d, nil
}

// Reply agrega una respuesta, notifica a los participantes del hilo
// (menos al autor de la respuesta) y emite el evento realtime.
// El fan-out es best-effort: una notificación fallida no tumba la respuesta.
func (s *service) Reply(ctx context.Context, discussionID, authorID, body string) (*store.Reply, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("discussions"),
		logger.Op("Reply"),
		logger.DiscussionID(discussionID),
	)

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrInvalidInput
	}

	d, err := s.Get(ctx, discussionID)
	if err != nil {
		return nil, err
	}

	rep := &store.Reply{
		DiscussionID: d.ID,
		AuthorID:     authorID,
		Body:         body,
	}
	if err := s.deps.Repo.AddReply(ctx, rep); err != nil {
		log.Error("reply create failed", logger.Err(err))
		return nil, err
	}

	participants, err := s.deps.Repo.Participants(ctx, d.ID)
	if err != nil {
		log.Warn("participants lookup failed, skipping notifications", logger.Err(err))
		participants = nil
	}
	for _, uid := range participants {
		if uid == authorID {
			continue
		}
		if err := s.deps.Notifier.NotifyReply(ctx, uid, d, rep); err != nil {
			log.Warn("reply notification failed", logger.UserID(uid), logger.Err(err))
		}
	}

	if s.deps.Broadcast != nil {
		s.deps.Broadcast.Broadcast(EventReplyCreated, map[string]any{
			"discussionId": d.ID,
			"replyId":      rep.ID,
			"authorId":     rep.AuthorID,
			"createdAt":    rep.CreatedAt.Format(time.RFC3339),
		})
	}

	log.Info("reply created", logger.ID(rep.ID))
	return rep, nil
}

func (s *service) Replies(ctx context.Context, discussionID string) ([]store.Reply, error) {
	if _, err := s.Get(ctx, discussionID); err != nil {
		return nil, err
	}
	return s.deps.Repo.ListReplies(ctx, discussionID)
}
