// Package roadmaps contiene el service de rutas de aprendizaje.
package roadmaps

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	dto "github.com/edustack/edustack-server/internal/http/dto/roadmaps"
	"github.com/edustack/edustack-server/internal/observability/logger"
	"github.com/edustack/edustack-server/internal/store"
)

var (
	ErrInvalidInput = errors.New("roadmaps: invalid input")
	ErrNotFound     = errors.New("roadmaps: not found")
	ErrSlugTaken    = errors.New("roadmaps: slug already in use")
)

// Repo es el subconjunto del repo que el service usa.
type Repo interface {
	List(ctx context.Context) ([]store.Roadmap, error)
	Get(ctx context.Context, idOrSlug string) (*store.Roadmap, error)
	Create(ctx context.Context, m *store.Roadmap) error
	Delete(ctx context.Context, id string) error
}

// Service expone las operaciones de roadmaps.
type Service interface {
	List(ctx context.Context) ([]store.Roadmap, error)
	Get(ctx context.Context, idOrSlug string) (*store.Roadmap, error)
	Create(ctx context.Context, req dto.CreateRequest) (*store.Roadmap, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repo
}

// NewService crea el service de roadmaps.
func NewService(repo Repo) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]store.Roadmap, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, idOrSlug string) (*store.Roadmap, error) {
	m, err := s.repo.Get(ctx, idOrSlug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *service) Create(ctx context.Context, req dto.CreateRequest) (*store.Roadmap, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("roadmaps"), logger.Op("Create"))

	title := strings.TrimSpace(req.Title)
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if title == "" || slug == "" {
		return nil, ErrInvalidInput
	}

	steps := []byte("[]")
	if len(req.Steps) > 0 {
		if !json.Valid(req.Steps) {
			return nil, ErrInvalidInput
		}
		steps = req.Steps
	}

	m := &store.Roadmap{
		Title:       title,
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
		Steps:       steps,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		log.Error("roadmap create failed", logger.Err(err))
		return nil, err
	}

	log.Info("roadmap created", logger.ID(m.ID))
	return m, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
