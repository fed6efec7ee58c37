package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DiscussionRepo acceso a discussions y replies.
type DiscussionRepo struct {
	pool *pgxpool.Pool
}

// List retorna hilos recientes.
func (r *DiscussionRepo) List(ctx context.Context, limit int) ([]Discussion, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const query = `
		SELECT id, title, body, author_id, course_id, created_at
		FROM discussions ORDER BY created_at DESC LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Discussion
	for rows.Next() {
		var d Discussion
		if err := rows.Scan(&d.ID, &d.Title, &d.Body, &d.AuthorID, &d.CourseID, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Get busca un hilo por id.
func (r *DiscussionRepo) Get(ctx context.Context, id string) (*Discussion, error) {
	const query = `SELECT id, title, body, author_id, course_id, created_at FROM discussions WHERE id = $1`
	var d Discussion
	err := r.pool.QueryRow(ctx, query, id).Scan(&d.ID, &d.Title, &d.Body, &d.AuthorID, &d.CourseID, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserta un hilo.
func (r *DiscussionRepo) Create(ctx context.Context, d *Discussion) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO discussions (id, title, body, author_id, course_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query, d.ID, d.Title, d.Body, d.AuthorID, d.CourseID, d.CreatedAt)
	return err
}

// AddReply agrega una respuesta a un hilo existente.
func (r *DiscussionRepo) AddReply(ctx context.Context, rep *Reply) error {
	if rep.ID == "" {
		rep.ID = uuid.NewString()
	}
	rep.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO replies (id, discussion_id, author_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query, rep.ID, rep.DiscussionID, rep.AuthorID, rep.Body, rep.CreatedAt)
	return err
}

// ListReplies retorna las respuestas de un hilo en orden cronológico.
func (r *DiscussionRepo) ListReplies(ctx context.Context, discussionID string) ([]Reply, error) {
	const query = `
		SELECT id, discussion_id, author_id, body, created_at
		FROM replies WHERE discussion_id = $1 ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, discussionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reply
	for rows.Next() {
		var rep Reply
		if err := rows.Scan(&rep.ID, &rep.DiscussionID, &rep.AuthorID, &rep.Body, &rep.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

// Participants retorna los user ids que participaron en un hilo
// (autor + autores de respuestas), sin duplicados. Usado para notificaciones.
func (r *DiscussionRepo) Participants(ctx context.Context, discussionID string) ([]string, error) {
	const query = `
		SELECT DISTINCT author_id FROM (
			SELECT author_id FROM discussions WHERE id = $1
			UNION ALL
			SELECT author_id FROM replies WHERE discussion_id = $1
		) p
	`
	rows, err := r.pool.Query(ctx, query, discussionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
