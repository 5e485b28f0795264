package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/userdir/internal/users/domain"
	"github.com/aussiebroadwan/userdir/internal/users/store"
	"github.com/jmoiron/sqlx"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const userColumns = `id, username, email, password_hash, token, token_expiration, created_at, updated_at`

type usersRepo struct {
	q sqlx.ExtContext
}

func (r *usersRepo) getOne(ctx context.Context, where string, arg any) (domain.User, error) {
	var row userRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+userColumns+` FROM users WHERE `+where+` LIMIT 1`, arg)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, `id = ?`, id)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.getOne(ctx, `username = ?`, username)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, `email = ?`, email)
}

func (r *usersRepo) GetUserByToken(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, store.ErrNotFound
	}
	return r.getOne(ctx, `token = ?`, token)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	created, updated := u.CreatedAt, u.UpdatedAt
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() {
		updated = created
	}

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, created.UTC(), updated.UTC(),
	)
	return mapConflict(err)
}

func (r *usersRepo) UpdateProfile(ctx context.Context, id, username, email string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET username = ?, email = ?, updated_at = ?
		WHERE id = ?`,
		username, email, time.Now().UTC(), id,
	)
	if err != nil {
		return mapConflict(err)
	}
	return requireAffected(res.RowsAffected())
}

func (r *usersRepo) SetToken(ctx context.Context, id, prevToken, token string, expiresAt time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET token = ?, token_expiration = ?, updated_at = ?
		WHERE id = ? AND token IS ?`,
		mapStringNull(token), expiresAt.UTC(), time.Now().UTC(), id, mapStringNull(prevToken),
	)
	if err != nil {
		return mapConflict(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
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
		UPDATE users SET token_expiration = ?, updated_at = ?
		WHERE id = ? AND token IS NOT NULL`,
		at.UTC(), time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// No token to expire is fine; a missing user is not.
		_, err := r.GetUserByID(ctx, id)
		return err
	}
	return nil
}

func (r *usersRepo) ClearExpiredTokens(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET token = NULL, token_expiration = NULL
		WHERE token IS NOT NULL AND token_expiration < ?`,
		before.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *usersRepo) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *usersRepo) ListUsers(ctx context.Context, offset, limit int) ([]domain.User, error) {
	var rows []userRow
	err := sqlx.SelectContext(ctx, r.q, &rows,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]domain.User, len(rows))
	for i, row := range rows {
		out[i] = mapUser(row)
	}
	return out, nil
}

func requireAffected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// mapConflict turns UNIQUE violations into *store.ConflictError naming the
// column.
func mapConflict(err error) error {
	if err == nil {
		return nil
	}

	var se *msqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	if se.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE && se.Code() != sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
		return err
	}

	msg := se.Error()
	for _, field := range []string{"username", "email", "token", "id"} {
		if strings.Contains(msg, "users."+field) {
			return &store.ConflictError{Field: field}
		}
	}
	return fmt.Errorf("%w: %s", store.ErrAlreadyExists, msg)
}
