// Package store implementa el acceso a datos sobre PostgreSQL (pgx/v5).
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store agrupa los repositorios sobre un pool compartido.
type Store struct {
	pool *pgxpool.Pool

	Users         *UserRepo
	Courses       *CourseRepo
	Roadmaps      *RoadmapRepo
	Documents     *DocumentRepo
	Discussions   *DiscussionRepo
	Notifications *NotificationRepo
	Feedback      *FeedbackRepo
}

// Options de conexión.
type Options struct {
	DSN             string
	MaxConns        int
	ConnMaxLifetime time.Duration
}

// New abre el pool y verifica la conexión.
func New(ctx context.Context, opts Options) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("store: parse dsn: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = int32(opts.MaxConns)
	}
	if opts.ConnMaxLifetime > 0 {
		cfg.MaxConnLifetime = opts.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	s := &Store{pool: pool}
	s.Users = &UserRepo{pool: pool}
	s.Courses = &CourseRepo{pool: pool}
	s.Roadmaps = &RoadmapRepo{pool: pool}
	s.Documents = &DocumentRepo{pool: pool}
	s.Discussions = &DiscussionRepo{pool: pool}
	s.Notifications = &NotificationRepo{pool: pool}
	s.Feedback = &FeedbackRepo{pool: pool}
	return s, nil
}

// Ping verifica la conexión (usado por el health check).
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close cierra el pool.
func (s *Store) Close() {
	s.pool.Close()
}
