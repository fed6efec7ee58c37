package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo acceso a la tabla users.
type UserRepo struct {
	pool *pgxpool.Pool
}

const userCols = `id, email, name, password_hash, provider, provider_id, email_verified, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash,
		&u.Provider, &u.ProviderID, &u.EmailVerified,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserta un usuario nuevo. Retorna ErrDuplicate si el email ya existe.
func (r *UserRepo) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	const query = `
		INSERT INTO users (id, email, name, password_hash, provider, provider_id, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Email, u.Name, u.PasswordHash,
		u.Provider, u.ProviderID, u.EmailVerified,
		u.CreatedAt, u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// GetByEmail busca por email (case-insensitive).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	const query = `SELECT ` + userCols + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

// GetByID busca por id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*User, error) {
	const query = `SELECT ` + userCols + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

// SetPassword actualiza el hash de password.
func (r *UserRepo) SetPassword(ctx context.Context, id, hash string) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkEmailVerified marca el email como verificado (flujo OTP).
func (r *UserRepo) MarkEmailVerified(ctx context.Context, id string) error {
	const query = `UPDATE users SET email_verified = true, updated_at = now() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertOAuth crea o vincula una cuenta a partir de un perfil OAuth.
func (r *UserRepo) UpsertOAuth(ctx context.Context, provider, providerID, email, name string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	// Primero por identidad de provider, luego por email (link de cuenta existente).
	const byProvider = `SELECT ` + userCols + ` FROM users WHERE provider = $1 AND provider_id = $2`
	if u, err := scanUser(r.pool.QueryRow(ctx, byProvider, provider, providerID)); err == nil {
		return u, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if u, err := r.GetByEmail(ctx, email); err == nil {
		const link = `UPDATE users SET provider = $2, provider_id = $3, email_verified = true, updated_at = now() WHERE id = $1`
		if _, err := r.pool.Exec(ctx, link, u.ID, provider, providerID); err != nil {
			return nil, err
		}
		u.Provider, u.ProviderID, u.EmailVerified = provider, providerID, true
		return u, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	u := &User{
		Email:         email,
		Name:          name,
		Provider:      provider,
		ProviderID:    providerID,
		EmailVerified: true,
	}
	if err := r.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Count retorna el total de usuarios. Lo usa el health check como query liviana.
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
