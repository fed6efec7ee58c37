package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RoadmapRepo acceso a la tabla roadmaps.
type RoadmapRepo struct {
	pool *pgxpool.Pool
}

const roadmapCols = `id, title, slug, description, steps, created_at, updated_at`

// List retorna todas las rutas de aprendizaje.
func (r *RoadmapRepo) List(ctx context.Context) ([]Roadmap, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+roadmapCols+` FROM roadmaps ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Roadmap
	for rows.Next() {
		var m Roadmap
		if err := rows.Scan(&m.ID, &m.Title, &m.Slug, &m.Description, &m.Steps, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Get busca por id o slug.
func (r *RoadmapRepo) Get(ctx context.Context, idOrSlug string) (*Roadmap, error) {
	const query = `SELECT ` + roadmapCols + ` FROM roadmaps WHERE id::text = $1 OR slug = $1`
	var m Roadmap
	err := r.pool.QueryRow(ctx, query, idOrSlug).Scan(
		&m.ID, &m.Title, &m.Slug, &m.Description, &m.Steps, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserta una ruta.
func (r *RoadmapRepo) Create(ctx context.Context, m *Roadmap) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	m.CreatedAt, m.UpdatedAt = now, now

	const query = `
		INSERT INTO roadmaps (id, title, slug, description, steps, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query, m.ID, m.Title, m.Slug, m.Description, m.Steps, m.CreatedAt, m.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// Delete elimina una ruta.
func (r *RoadmapRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roadmaps WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Slugs retorna los slugs (para el sitemap).
func (r *RoadmapRepo) Slugs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT slug FROM roadmaps ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
