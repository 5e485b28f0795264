package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/userdir/internal/users/domain"
	"github.com/aussiebroadwan/userdir/internal/users/store"
	"github.com/aussiebroadwan/userdir/pkg/cryptox"
	"github.com/aussiebroadwan/userdir/pkg/slogx"
)

const (
	// DefaultTokenTTL is the lifetime of a freshly issued token.
	DefaultTokenTTL = time.Hour

	// maxTokenAttempts bounds regeneration after a token value collides
	// with another user's.
	maxTokenAttempts = 3
)

// TokenService issues, checks and revokes the single bearer token each user
// holds.
type TokenService struct {
	Store  store.Store
	Hasher cryptox.PasswordHasher
	TTL    time.Duration

	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *TokenService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultTokenTTL
	}
	return s.TTL
}

// IssueToken returns user with a usable token. A token with more than
// domain.TokenReuseWindow left is handed back unchanged; otherwise a new one
// replaces it. When a concurrent issuance for the same user wins the race,
// the winner's token is returned instead of writing a second one.
func (s *TokenService) IssueToken(ctx context.Context, user domain.User) (domain.User, error) {
	now := s.now()
	if user.TokenReusable(now) {
		return user, nil
	}

	users := s.Store.Users()
	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		token, err := cryptox.GenerateToken(cryptox.TokenSize192)
		if err != nil {
			return domain.User{}, err
		}
		expiresAt := now.Add(s.ttl())

		err = users.SetToken(ctx, user.ID, user.Token, token, expiresAt)
		switch {
		case err == nil:
			user.Token = token
			user.TokenExpiration = expiresAt
			slogx.FromContext(ctx).Info("token issued",
				slog.String("user_id", user.ID),
				slog.Time("expires_at", expiresAt))
			return user, nil

		case errors.Is(err, store.ErrStaleToken):
			current, err := users.GetUserByID(ctx, user.ID)
			if err != nil {
				return domain.User{}, mapUserLookup(err)
			}
			if current.TokenValid(now) {
				return current, nil
			}
			user = current

		case isTokenConflict(err):
			slogx.FromContext(ctx).Warn("token collision, regenerating", slog.Int("attempt", attempt))

		case errors.Is(err, store.ErrNotFound):
			return domain.User{}, ErrNotFound

		default:
			return domain.User{}, fmt.Errorf("store token: %w", err)
		}
	}
	return domain.User{}, fmt.Errorf("could not store a token after %d attempts", maxTokenAttempts)
}

// RevokeToken moves the token's expiry one second into the past. The token
// value is kept so it keeps failing as expired. Revoking again is harmless.
func (s *TokenService) RevokeToken(ctx context.Context, user domain.User) error {
	if user.Token == "" {
		return nil
	}
	if err := s.Store.Users().ExpireToken(ctx, user.ID, s.now().Add(-time.Second)); err != nil {
		return mapUserLookup(err)
	}
	slogx.FromContext(ctx).Info("token revoked", slog.String("user_id", user.ID))
	return nil
}

// Authenticate resolves a bearer token to its user. The errors wrap
// ErrUnauthenticated and say whether the token was unknown or expired.
func (s *TokenService) Authenticate(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, ErrTokenNotFound
	}
	user, err := s.Store.Users().GetUserByToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrTokenNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	if !user.TokenValid(s.now()) {
		return domain.User{}, ErrTokenExpired
	}
	return user, nil
}

// Login checks a username and password and issues a token for the user.
func (s *TokenService) Login(ctx context.Context, username, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		l.Info("login failed", slog.String("reason", "unknown_user"))
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, err
	}

	if err := s.Hasher.Verify(password, user.PasswordHash); err != nil {
		l.Info("login failed", slog.String("reason", "bad_password"), slog.String("user_id", user.ID))
		return domain.User{}, ErrInvalidCredentials
	}

	return s.IssueToken(ctx, user)
}

func isTokenConflict(err error) bool {
	var ce *store.ConflictError
	return errors.As(err, &ce) && ce.Field == "token"
}

func mapUserLookup(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
