package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FeedbackRepo acceso a la tabla feedback.
type FeedbackRepo struct {
	pool *pgxpool.Pool
}

// Create inserta feedback.
func (r *FeedbackRepo) Create(ctx context.Context, f *Feedback) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO feedback (id, user_id, subject, body, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query, f.ID, f.UserID, f.Subject, f.Body, f.Rating, f.CreatedAt)
	return err
}

// List retorna feedback reciente.
func (r *FeedbackRepo) List(ctx context.Context, limit int) ([]Feedback, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const query = `
		SELECT id, user_id, subject, body, rating, created_at
		FROM feedback ORDER BY created_at DESC LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Feedback
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.Subject, &f.Body, &f.Rating, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
