// Package sitemap genera el sitemap.xml a partir de los slugs publicados.
package sitemap

import (
	"context"
	"encoding/xml"
	"strings"

	"github.com/edustack/edustack-server/internal/observability/logger"
)

// SlugSource entrega los slugs que alimentan el sitemap.
type SlugSource interface {
	PublishedSlugs(ctx context.Context) ([]string, error)
}

// RoadmapSlugSource entrega los slugs de roadmaps.
type RoadmapSlugSource interface {
	Slugs(ctx context.Context) ([]string, error)
}

// Service genera el XML del sitemap.
type Service interface {
	Generate(ctx context.Context) ([]byte, error)
}

// Deps son las dependencias del service.
type Deps struct {
	Courses  SlugSource
	Roadmaps RoadmapSlugSource
	// BaseURL es el origen público del frontend.
	BaseURL string
}

type service struct {
	deps Deps
}

// NewService crea el service de sitemap.
func NewService(deps Deps) Service {
	return &service{deps: deps}
}

type urlEntry struct {
	Loc string `xml:"loc"`
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

// Generate arma el sitemap con las páginas estáticas más los cursos y
// roadmaps publicados. Un fallo parcial degrada a sitemap incompleto.
func (s *service) Generate(ctx context.Context) ([]byte, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("sitemap"))

	base := strings.TrimRight(s.deps.BaseURL, "/")
	set := urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []urlEntry{
			{Loc: base + "/"},
			{Loc: base + "/courses"},
			{Loc: base + "/roadmaps"},
		},
	}

	courseSlugs, err := s.deps.Courses.PublishedSlugs(ctx)
	if err != nil {
		log.Warn("course slugs unavailable for sitemap", logger.Err(err))
	}
	for _, slug := range courseSlugs {
		set.URLs = append(set.URLs, urlEntry{Loc: base + "/courses/" + slug})
	}

	roadmapSlugs, err := s.deps.Roadmaps.Slugs(ctx)
	if err != nil {
		log.Warn("roadmap slugs unavailable for sitemap", logger.Err(err))
	}
	for _, slug := range roadmapSlugs {
		set.URLs = append(set.URLs, urlEntry{Loc: base + "/roadmaps/" + slug})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
