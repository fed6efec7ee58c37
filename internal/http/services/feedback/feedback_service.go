// Package feedback contiene el service de feedback de usuarios.
package feedback

import (
	"context"
	"errors"
	"strings"

	"github.com/edustack/edustack-server/internal/observability/logger"
	"github.com/edustack/edustack-server/internal/store"
)

var ErrInvalidInput = errors.New("feedback: invalid input")

// Repo es el subconjunto del repo que el service usa.
type Repo interface {
	Create(ctx context.Context, f *store.Feedback) error
	List(ctx context.Context, limit int) ([]store.Feedback, error)
}

// Service expone las operaciones de feedback.
type Service interface {
	Submit(ctx context.Context, userID, subject, body string, rating int) (*store.Feedback, error)
	List(ctx context.Context, limit int) ([]store.Feedback, error)
}

type service struct {
	repo Repo
}

// NewService crea el service de feedback.
func NewService(repo Repo) Service {
	return &service{repo: repo}
}

// Submit acepta feedback anónimo (userID vacío) o autenticado.
func (s *service) Submit(ctx context.Context, userID, subject, body string, rating int) (*store.Feedback, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" || rating < 0 || rating > 5 {
		return nil, ErrInvalidInput
	}

	f := &store.Feedback{
		UserID:  userID,
		Subject: subject,
		Body:    strings.TrimSpace(body),
		Rating:  rating,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		logger.From(ctx).Error("feedback create failed",
			logger.Component("feedback"),
			logger.Err(err),
		)
		return nil, err
	}
	return f, nil
}

func (s *service) List(ctx context.Context, limit int) ([]store.Feedback, error) {
	return s.repo.List(ctx, limit)
}
