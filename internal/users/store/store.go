package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/userdir/internal/users/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrStaleToken is returned by SetToken when the stored token no longer
	// matches the caller's view, i.e. a concurrent issuance won.
	ErrStaleToken = errors.New("store: token changed concurrently")
)

// ConflictError reports which unique column rejected a write. It matches
// ErrAlreadyExists with errors.Is.
type ConflictError struct {
	Field string // username, email or token
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("store: %s already exists", e.Field)
}

func (e *ConflictError) Unwrap() error { return ErrAlreadyExists }

// Store is the root data access interface implemented by the sqlite and
// postgres drivers. Repositories hang off it so a Tx exposes the same API.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST call Commit() or
	// Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when it returns nil and
	// rolling back otherwise. Prefer it over Tx.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Nested transactions are not supported.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByToken matches the token exactly regardless of expiry.
	GetUserByToken(ctx context.Context, token string) (domain.User, error)

	// CreateUser inserts u (id provided by the caller). Unique violations
	// return *ConflictError.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateProfile writes username and email and bumps updated_at.
	UpdateProfile(ctx context.Context, id, username, email string) error

	// SetToken stores token and expiresAt only if the current token still
	// equals prevToken ("" meaning none). Otherwise it returns ErrStaleToken.
	SetToken(ctx context.Context, id, prevToken, token string, expiresAt time.Time) error

	// ExpireToken moves the expiry of a present token to at.
	ExpireToken(ctx context.Context, id string, at time.Time) error

	// ClearExpiredTokens nulls tokens that expired before the cutoff and
	// returns how many were cleared.
	ClearExpiredTokens(ctx context.Context, before time.Time) (int64, error)

	CountUsers(ctx context.Context) (int, error)

	// ListUsers returns a window of users ordered by id.
	ListUsers(ctx context.Context, offset, limit int) ([]domain.User, error)
}
