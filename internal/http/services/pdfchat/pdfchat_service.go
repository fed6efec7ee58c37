// Package pdfchat contiene el service de preguntas sobre documentos PDF,
// delegadas a un proveedor LLM externo por HTTP.
package pdfchat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/edustack/edustack-server/internal/observability/logger"
	"github.com/edustack/edustack-server/internal/store"
)

var (
	ErrInvalidInput  = errors.New("pdfchat: invalid input")
	ErrNotConfigured = errors.New("pdfchat: llm provider not configured")
	ErrDocNotFound   = errors.New("pdfchat: document not found")
	ErrUpstream      = errors.New("pdfchat: llm provider error")
)

// upstreamTimeout acota la llamada al proveedor por debajo del timeout
// global del request, para que el error sea nuestro y no un context deadline
// genérico.
const upstreamTimeout = 25 * time.Second

// DocumentGetter resuelve el documento referenciado en la pregunta.
type DocumentGetter interface {
	Get(ctx context.Context, id string) (*store.Document, error)
}

// Service responde preguntas sobre un documento.
type Service interface {
	Ask(ctx context.Context, documentID, question string) (string, error)
}

// Deps son las dependencias del service.
type Deps struct {
	Documents DocumentGetter
	APIKey    string
	BaseURL   string
	HTTP      *http.Client
}

type service struct {
	deps Deps
}

// NewService crea el service. Si el proveedor no está configurado el
// service existe igual y Ask responde ErrNotConfigured (el endpoint da 503).
func NewService(deps Deps) Service {
	if deps.HTTP == nil {
		deps.HTTP = &http.Client{Timeout: upstreamTimeout}
	}
	return &service{deps: deps}
}

// Configured indica si hay credenciales del proveedor.
func (s *service) configured() bool {
	return s.deps.APIKey != "" && s.deps.BaseURL != ""
}

type upstreamRequest struct {
	DocumentURL string `json:"document_url"`
	Question    string `json:"question"`
}

type upstreamResponse struct {
	Answer string `json:"answer"`
	Error  string `json:"error,omitempty"`
}

// Ask reenvía la pregunta al proveedor con la URL del documento.
func (s *service) Ask(ctx context.Context, documentID, question string) (string, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("pdfchat"),
		logger.DocumentID(documentID),
	)

	if !s.configured() {
		return "", ErrNotConfigured
	}

	question = strings.TrimSpace(question)
	if documentID == "" || question == "" {
		return "", ErrInvalidInput
	}

	doc, err := s.deps.Documents.Get(ctx, documentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrDocNotFound
		}
		return "", err
	}
	if doc.Kind != store.DocPDF {
		return "", ErrInvalidInput
	}

	payload, err := json.Marshal(upstreamRequest{
		DocumentURL: doc.StorageURL,
		Question:    question,
	})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, upstreamTimeout)
	defer cancel()

	url := strings.TrimRight(s.deps.BaseURL, "/") + "/v1/pdf-chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.deps.APIKey)

	resp, err := s.deps.HTTP.Do(req)
	if err != nil {
		log.Error("llm request failed", logger.Err(err))
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		log.Error("llm request rejected", logger.Int("status", resp.StatusCode))
		return "", fmt.Errorf("%w: http %d", ErrUpstream, resp.StatusCode)
	}

	var ur upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if ur.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrUpstream, ur.Error)
	}

	log.Debug("llm answer received")
	return ur.Answer, nil
}
