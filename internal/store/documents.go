package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRepo acceso a la tabla documents (pdfs, ebooks, imágenes).
type DocumentRepo struct {
	pool *pgxpool.Pool
}

const documentCols = `id, kind, title, file_name, storage_url, size_bytes, owner_id, course_id, created_at`

// List retorna documentos de un tipo, más recientes primero.
func (r *DocumentRepo) List(ctx context.Context, kind DocumentKind, limit int) ([]Document, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const query = `SELECT ` + documentCols + ` FROM documents WHERE kind = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, kind, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Kind, &d.Title, &d.FileName, &d.StorageURL, &d.SizeBytes, &d.OwnerID, &d.CourseID, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Get busca por id.
func (r *DocumentRepo) Get(ctx context.Context, id string) (*Document, error) {
	const query = `SELECT ` + documentCols + ` FROM documents WHERE id = $1`
	var d Document
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Kind, &d.Title, &d.FileName, &d.StorageURL, &d.SizeBytes, &d.OwnerID, &d.CourseID, &d.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create registra la metadata de un archivo subido.
func (r *DocumentRepo) Create(ctx context.Context, d *Document) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO documents (id, kind, title, file_name, storage_url, size_bytes, owner_id, course_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		d.ID, d.Kind, d.Title, d.FileName, d.StorageURL, d.SizeBytes, d.OwnerID, d.CourseID, d.CreatedAt,
	)
	return err
}

// Delete elimina metadata. Solo el dueño puede borrar.
func (r *DocumentRepo) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
