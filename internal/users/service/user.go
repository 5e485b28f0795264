package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/userdir/internal/users/domain"
	"github.com/aussiebroadwan/userdir/internal/users/store"
	"github.com/aussiebroadwan/userdir/pkg/cryptox"
	"github.com/aussiebroadwan/userdir/pkg/idx"
	"github.com/aussiebroadwan/userdir/pkg/pagex"
	"github.com/aussiebroadwan/userdir/pkg/slogx"
)

// UserService implements signup and the profile operations of the directory.
type UserService struct {
	Store  store.Store
	Hasher cryptox.PasswordHasher
}

// CreateUser validates in, hashes the password and stores a new user.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (domain.User, error) {
	in = in.normalize()

	fields, err := Validator{Users: s.Store.Users()}.ValidateCreate(ctx, in)
	if err != nil {
		return domain.User{}, err
	}
	if fields != nil {
		return domain.User{}, &ValidationError{Fields: fields}
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		// A concurrent create can slip past the lookups above; the unique
		// constraint still decides.
		if fields := conflictFields(err, msgTakenUsernameCreate, msgTakenEmailCreate); fields != nil {
			return domain.User{}, &ValidationError{Fields: fields}
		}
		return domain.User{}, err
	}

	created, err := s.Store.Users().GetUserByID(ctx, user.ID)
	if err != nil {
		return domain.User{}, mapUserLookup(err)
	}

	slogx.FromContext(ctx).Info("user created",
		slog.String("user_id", created.ID),
		slog.String("username", created.Username))
	return created, nil
}

// ListUsers returns one page of users in id order.
func (s *UserService) ListUsers(ctx context.Context, req pagex.Request, ep pagex.Endpoint) (pagex.Page[domain.User], error) {
	return pagex.Paginate[domain.User](ctx, userSource{users: s.Store.Users()}, req, ep)
}

// GetUser fetches a user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	if _, err := idx.Parse(id); err != nil {
		return domain.User{}, ErrNotFound
	}
	user, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapUserLookup(err)
	}
	return user, nil
}

// UpdateUser applies the present fields of in to the user's profile. The
// read, the checks and the write share one transaction.
func (s *UserService) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (domain.User, error) {
	if _, err := idx.Parse(id); err != nil {
		return domain.User{}, ErrNotFound
	}
	in = in.normalize()

	var updated domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		users := tx.Users()

		current, err := users.GetUserByID(ctx, id)
		if err != nil {
			return mapUserLookup(err)
		}

		fields, err := Validator{Users: users}.ValidateUpdate(ctx, current, in)
		if err != nil {
			return err
		}
		if fields != nil {
			return &ValidationError{Fields: fields}
		}

		username, email := current.Username, current.Email
		if in.Username != nil {
			username = *in.Username
		}
		if in.Email != nil {
			email = *in.Email
		}
		if username == current.Username && email == current.Email {
			updated = current
			return nil
		}

		if err := users.UpdateProfile(ctx, id, username, email); err != nil {
			if fields := conflictFields(err, msgTakenUsernameUpdate, msgTakenEmailUpdate); fields != nil {
				return &ValidationError{Fields: fields}
			}
			return mapUserLookup(err)
		}

		updated, err = users.GetUserByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user updated", slog.String("user_id", id))
	return updated, nil
}

// DeleteUser is not supported yet and always fails with ErrNotImplemented.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	return ErrNotImplemented
}

// conflictFields turns a unique violation on username or email into the
// matching field message, or returns nil for any other error.
func conflictFields(err error, usernameMsg, emailMsg string) map[string]string {
	var ce *store.ConflictError
	if !errors.As(err, &ce) {
		return nil
	}
	switch ce.Field {
	case "username":
		return map[string]string{"username": usernameMsg}
	case "email":
		return map[string]string{"email": emailMsg}
	}
	return nil
}

// userSource pages over the users table.
type userSource struct {
	users store.Users
}

func (s userSource) Count(ctx context.Context) (int, error) {
	return s.users.CountUsers(ctx)
}

func (s userSource) Slice(ctx context.Context, offset, limit int) ([]domain.User, error) {
	return s.users.ListUsers(ctx, offset, limit)
}
