package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CourseRepo acceso a la tabla courses.
type CourseRepo struct {
	pool *pgxpool.Pool
}

const courseCols = `id, title, slug, description, author_id, published, created_at, updated_at`

func scanCourse(row pgx.Row) (*Course, error) {
	var c Course
	err := row.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.AuthorID, &c.Published, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List retorna cursos ordenados por creación descendente.
func (r *CourseRepo) List(ctx context.Context, publishedOnly bool, limit int) ([]Course, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `SELECT ` + courseCols + ` FROM courses`
	if publishedOnly {
		query += ` WHERE published = true`
	}
	query += ` ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.AuthorID, &c.Published, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Get busca por id.
func (r *CourseRepo) Get(ctx context.Context, id string) (*Course, error) {
	const query = `SELECT ` + courseCols + ` FROM courses WHERE id = $1`
	return scanCourse(r.pool.QueryRow(ctx, query, id))
}

// Create inserta un curso.
func (r *CourseRepo) Create(ctx context.Context, c *Course) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	const query = `
		INSERT INTO courses (id, title, slug, description, author_id, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query, c.ID, c.Title, c.Slug, c.Description, c.AuthorID, c.Published, c.CreatedAt, c.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// Update actualiza título, descripción y estado de publicación.
func (r *CourseRepo) Update(ctx context.Context, c *Course) error {
	const query = `
		UPDATE courses SET title = $2, description = $3, published = $4, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, c.ID, c.Title, c.Description, c.Published)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete elimina un curso.
func (r *CourseRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PublishedSlugs retorna slugs de cursos publicados (para el sitemap).
func (r *CourseRepo) PublishedSlugs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT slug FROM courses WHERE published = true ORDER BY created_at`)
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
