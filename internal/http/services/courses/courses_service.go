// Package courses contiene el service de cursos.
package courses

import (
	"context"
	"errors"
	"regexp"
	"strings"

	dto "github.com/edustack/edustack-server/internal/http/dto/courses"
	"github.com/edustack/edustack-server/internal/observability/logger"
	"github.com/edustack/edustack-server/internal/store"
)

var (
	ErrInvalidInput = errors.New("courses: invalid input")
	ErrNotFound     = errors.New("courses: not found")
	ErrSlugTaken    = errors.New("courses: slug already in use")
	ErrNotOwner     = errors.New("courses: not the author")
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Repo es el subconjunto del repo de cursos que el service usa.
type Repo interface {
	List(ctx context.Context, publishedOnly bool, limit int) ([]store.Course, error)
	Get(ctx context.Context, id string) (*store.Course, error)
	Create(ctx context.Context, c *store.Course) error
	Update(ctx context.Context, c *store.Course) error
	Delete(ctx context.Context, id string) error
}

// Service expone las operaciones de cursos.
type Service interface {
	List(ctx context.Context, includeUnpublished bool, limit int) ([]store.Course, error)
	Get(ctx context.Context, id string) (*store.Course, error)
	Create(ctx context.Context, authorID string, req dto.CreateRequest) (*store.Course, error)
	Update(ctx context.Context, id, userID string, req dto.UpdateRequest) (*store.Course, error)
	Delete(ctx context.Context, id, userID string) error
}

type service struct {
	repo Repo
}

// NewService crea el service de cursos.
func NewService(repo Repo) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, includeUnpublished bool, limit int) ([]store.Course, error) {
	return s.repo.List(ctx, !includeUnpublished, limit)
}

func (s *service) Get(ctx context.Context, id string) (*store.Course, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *service) Create(ctx context.Context, authorID string, req dto.CreateRequest) (*store.Course, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("courses"), logger.Op("Create"))

	title := strings.TrimSpace(req.Title)
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if title == "" || !slugRe.MatchString(slug) {
		return nil, ErrInvalidInput
	}

	c := &store.Course{
		Title:       title,
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
		AuthorID:    authorID,
		Published:   req.Published,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		log.Error("course create failed", logger.Err(err))
		return nil, err
	}

	log.Info("course created", logger.CourseID(c.ID))
	return c, nil
}

func (s *service) Update(ctx context.Context, id, userID string, req dto.UpdateRequest) (*store.Course, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.AuthorID != userID {
		return nil, ErrNotOwner
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrInvalidInput
		}
		c.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		c.Description = strings.TrimSpace(*req.Description)
	}
	if req.Published != nil {
		c.Published = *req.Published
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id, userID string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.AuthorID != userID {
		return ErrNotOwner
	}
	return s.repo.Delete(ctx, id)
}
