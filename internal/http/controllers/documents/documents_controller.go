// Package documents contiene el controller de documentos (pdfs, ebooks,
// imágenes).
package documents

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dto "github.com/edustack/edustack-server/internal/http/dto/documents"
	httperrors "github.com/edustack/edustack-server/internal/http/errors"
	"github.com/edustack/edustack-server/internal/http/helpers"
	"github.com/edustack/edustack-server/internal/http/middlewares"
	svc "github.com/edustack/edustack-server/internal/http/services/documents"
	"github.com/edustack/edustack-server/internal/store"
)

// Controller maneja los endpoints de documentos.
type Controller struct {
	service svc.Service
}

// NewController crea el controller.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

func toResponse(d *store.Document) dto.Response {
	return dto.Response{
		ID:        d.ID,
		Kind:      string(d.Kind),
		Title:     d.Title,
		FileName:  d.FileName,
		URL:       d.StorageURL,
		SizeBytes: d.SizeBytes,
		OwnerID:   d.OwnerID,
		CourseID:  d.CourseID,
		CreatedAt: d.CreatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrInvalidInput):
		httperrors.WriteError(w, httperrors.ErrValidation)
	case errors.Is(err, svc.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound)
	case errors.Is(err, svc.ErrUnsupportedType):
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail("unsupported file type"))
	case errors.Is(err, svc.ErrTooLarge):
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail("file too large"))
	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}

func (c *Controller) list(w http.ResponseWriter, r *http.Request, kind store.DocumentKind) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := c.service.List(r.Context(), kind, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]dto.Response, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ListResponse{Documents: out})
}

// ListPDFs maneja GET /api/pdfs.
func (c *Controller) ListPDFs(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, store.DocPDF)
}

// ListEbooks maneja GET /api/ebooks.
func (c *Controller) ListEbooks(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, store.DocEbook)
}

// ListImages maneja GET /api/images.
func (c *Controller) ListImages(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, store.DocImage)
}

// Get maneja GET /api/documents/{id}.
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	d, err := c.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toResponse(d))
}

// Upload maneja POST /api/documents (multipart/form-data, campo "file").
func (c *Controller) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(svc.MaxUploadBytes); err != nil {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail("invalid multipart form"))
		return
	}

	_, fh, err := r.FormFile("file")
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail("file field is required"))
		return
	}

	d, err := c.service.Upload(
		r.Context(),
		middlewares.GetUserID(r.Context()),
		r.FormValue("title"),
		r.FormValue("courseId"),
		fh,
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, toResponse(d))
}

// Delete maneja DELETE /api/documents/{id}.
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.service.Delete(r.Context(), chi.URLParam(r, "id"), middlewares.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
