// Package documents contiene el service de documentos: metadata en Postgres,
// archivos en disco local bajo el upload dir configurado.
package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/edustack/edustack-server/internal/observability/logger"
	"github.com/edustack/edustack-server/internal/store"
)

var (
	ErrInvalidInput    = errors.New("documents: invalid input")
	ErrNotFound        = errors.New("documents: not found")
	ErrUnsupportedType = errors.New("documents: unsupported file type")
	ErrTooLarge        = errors.New("documents: file too large")
)

// MaxUploadBytes limita el tamaño de archivo aceptado.
const MaxUploadBytes = 50 << 20 // 50 MiB

// Extensiones aceptadas por tipo de documento.
var kindByExt = map[string]store.DocumentKind{
	".pdf":  store.DocPDF,
	".epub": store.DocEbook,
	".mobi": store.DocEbook,
	".png":  store.DocImage,
	".jpg":  store.DocImage,
	".jpeg": store.DocImage,
	".webp": store.DocImage,
}

// Repo es el subconjunto del repo que el service usa.
type Repo interface {
	List(ctx context.Context, kind store.DocumentKind, limit int) ([]store.Document, error)
	Get(ctx context.Context, id string) (*store.Document, error)
	Create(ctx context.Context, d *store.Document) error
	Delete(ctx context.Context, id, ownerID string) error
}

// Service expone las operaciones de documentos.
type Service interface {
	List(ctx context.Context, kind store.DocumentKind, limit int) ([]store.Document, error)
	Get(ctx context.Context, id string) (*store.Document, error)
	Upload(ctx context.Context, ownerID, title, courseID string, fh *multipart.FileHeader) (*store.Document, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// Deps son las dependencias del service.
type Deps struct {
	Repo      Repo
	UploadDir string
}

type service struct {
	deps Deps
}

// NewService crea el service y garantiza que el upload dir exista.
func NewService(deps Deps) (Service, error) {
	if deps.UploadDir == "" {
		return nil, fmt.Errorf("documents: upload dir is required")
	}
	if err := os.MkdirAll(deps.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("documents: create upload dir: %w", err)
	}
	return &service{deps: deps}, nil
}

func (s *service) List(ctx context.Context, kind store.DocumentKind, limit int) ([]store.Document, error) {
	return s.deps.Repo.List(ctx, kind, limit)
}

func (s *service) Get(ctx context.Context, id string) (*store.Document, error) {
	d, err := s.deps.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// Upload guarda el archivo en disco con nombre aleatorio (el nombre original
// solo queda en la metadata) y registra el documento.
func (s *service) Upload(ctx context.Context, ownerID, title, courseID string, fh *multipart.FileHeader) (*store.Document, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("documents"), logger.Op("Upload"))

	if fh == nil || fh.Filename == "" {
		return nil, ErrInvalidInput
	}
	if fh.Size > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	kind, ok := kindByExt[ext]
	if !ok {
		return nil, ErrUnsupportedType
	}

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	id := uuid.NewString()
	storedName := id + ext
	dstPath := filepath.Join(s.deps.UploadDir, storedName)

	dst, err := os.Create(dstPath)
	if err != nil {
		log.Error("upload file create failed", logger.Err(err))
		return nil, err
	}
	defer dst.Close()

	n, err := io.Copy(dst, io.LimitReader(src, MaxUploadBytes+1))
	if err != nil {
		_ = os.Remove(dstPath)
		return nil, err
	}
	if n > MaxUploadBytes {
		_ = os.Remove(dstPath)
		return nil, ErrTooLarge
	}

	if title == "" {
		title = strings.TrimSuffix(filepath.Base(fh.Filename), ext)
	}

	d := &store.Document{
		ID:         id,
		Kind:       kind,
		Title:      title,
		FileName:   filepath.Base(fh.Filename),
		StorageURL: "/uploads/" + storedName,
		SizeBytes:  n,
		OwnerID:    ownerID,
		CourseID:   courseID,
	}
	if err := s.deps.Repo.Create(ctx, d); err != nil {
		_ = os.Remove(dstPath)
		log.Error("document create failed", logger.Err(err))
		return nil, err
	}

	log.Info("document uploaded", logger.DocumentID(d.ID), logger.String("kind", string(kind)))
	return d, nil
}

// Delete borra la metadata y luego el archivo. Solo el dueño puede borrar.
func (s *service) Delete(ctx context.Context, id, ownerID string) error {
	d, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.deps.Repo.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if name := filepath.Base(d.StorageURL); name != "" && name != "." {
		_ = os.Remove(filepath.Join(s.deps.UploadDir, name))
	}
	return nil
}
