package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/userdir/internal/users/domain"
	"github.com/aussiebroadwan/userdir/internal/users/store"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

const (
	uniqueViolation = "23505"

	userColumns = `id, username, email, password_hash, token, token_expiration, created_at, updated_at`
)

// constraintFields maps unique constraint names from the migrations to the
// field they protect.
var constraintFields = map[string]string{
	"users_pkey":         "id",
	"users_username_key": "username",
	"users_email_key":    "email",
	"users_token_key":    "token",
}

type usersRepo struct {
	q sqlx.ExtContext
}

func (r *usersRepo) getOne(ctx context.Context, where string, arg any) (domain.User, error) {
	var row userRow
	if err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+userColumns+` FROM users WHERE `+where, arg); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.getOne(ctx, `username = $1`, username)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, `email = $1`, email)
}

func (r *usersRepo) GetUserByToken(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, store.ErrNotFound
	}
	return r.getOne(ctx, `token = $1`, token)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	created := u.CreatedAt
	if created.IsZero() {
		created = now
	}

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)`,
		u.ID, u.Username, u.Email, u.PasswordHash, created.UTC(),
	)
	return mapConflict(err)
}

func (r *usersRepo) UpdateProfile(ctx context.Context, id, username, email string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET username = $1, email = $2, updated_at = now()
		WHERE id = $3`,
		username, email, id,
	)
	if err != nil {
		return mapConflict(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) SetToken(ctx context.Context, id, prevToken, token string, expiresAt time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET token = $1, token_expiration = $2, updated_at = now()
		WHERE id = $3 AND token IS NOT DISTINCT FROM $4`,
		nullable(token), expiresAt.UTC(), id, nullable(prevToken),
	)
	if err != nil {
		return mapConflict(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if n == 1 {
		return nil
	}
	if _, err := r.GetUserByID(ctx, id); err != nil {
		return err
	}
	return store.ErrStaleToken
}

func (r *usersRepo) ExpireToken(ctx context.Context, id string, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET token_expiration = $1, updated_at = now()
		WHERE id = $2 AND token IS NOT NULL`,
		at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if n == 0 {
		_, err := r.GetUserByID(ctx, id)
		return err
	}
	return nil
}

func (r *usersRepo) ClearExpiredTokens(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET token = NULL, token_expiration = NULL
		WHERE token IS NOT NULL AND token_expiration < $1`,
		before.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("postgres: %w", err)
	}
	return res.RowsAffected()
}

func (r *usersRepo) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("postgres: %w", err)
	}
	return n, nil
}

// ListUsers orders by the raw bytes of the ULID so the order matches
// creation time under any database collation.
func (r *usersRepo) ListUsers(ctx context.Context, offset, limit int) ([]domain.User, error) {
	var rows []userRow
	err := sqlx.SelectContext(ctx, r.q, &rows,
		`SELECT `+userColumns+` FROM users ORDER BY id COLLATE "C" LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	out := make([]domain.User, len(rows))
	for i, row := range rows {
		out[i] = mapUser(row)
	}
	return out, nil
}

func mapConflict(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return fmt.Errorf("postgres: %w", err)
	}
	if field, ok := constraintFields[pgErr.ConstraintName]; ok {
		return &store.ConflictError{Field: field}
	}
	return fmt.Errorf("%w: %s", store.ErrAlreadyExists, pgErr.ConstraintName)
}
