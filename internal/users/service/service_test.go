package service

import (
	"context"
	"strings"
	"testing"

	"github.com/aussiebroadwan/userdir/internal/users/store/drivers/sqlite"
	"github.com/aussiebroadwan/userdir/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

// plainHasher keeps tests fast; argon2 is covered in pkg/cryptox and in
// TestLogin.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }

func (plainHasher) Verify(password, hash string) error {
	if strings.TrimPrefix(hash, "plain:") != password {
		return cryptox.ErrPasswordMismatch
	}
	return nil
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newUserService(t *testing.T) *UserService {
	t.Helper()
	return &UserService{Store: newTestStore(t), Hasher: plainHasher{}}
}

func ptr[T any](v T) *T { return &v }

func mustCreate(t *testing.T, s *UserService, username string) string {
	t.Helper()
	u, err := s.CreateUser(context.Background(), CreateUserInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "hunter2",
	})
	require.NoError(t, err)
	return u.ID
}
