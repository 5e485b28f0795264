package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aussiebroadwan/userdir/internal/users/domain"
	"github.com/aussiebroadwan/userdir/internal/users/store"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

var rowColumns = []string{"id", "username", "email", "password_hash", "token", "token_expiration", "created_at", "updated_at"}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewStoreFromDB(db), mock
}

func TestGetUserByID(t *testing.T) {
	t.Parallel()
	st, mock := newMockStore(t)
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	exp := created.Add(time.Hour)

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("01J").
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow("01J", "alice", "alice@example.com", "hash", "tok", exp, created, created))

	u, err := st.Users().GetUserByID(context.Background(), "01J")
	require.NoError(t, err)
	require.Equal(t, domain.User{
		ID: "01J", Username: "alice", Email: "alice@example.com", PasswordHash: "hash",
		Token: "tok", TokenExpiration: exp, CreatedAt: created, UpdatedAt: created,
	}, u)
}

func TestGetUserByUsername_NullToken(t *testing.T) {
	t.Parallel()
	st, mock := newMockStore(t)
	created := time.Now().UTC()

	mock.ExpectQuery(`WHERE\s+username\s*=\s*\$1`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow("01J", "alice", "alice@example.com", "hash", nil, nil, created, created))

	u, err := st.Users().GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.Empty(t, u.Token)
	require.True(t, u.TokenExpiration.IsZero())
}

func TestGetUser_NotFound(t *testing.T) {
	t.Parallel()
	st, mock := newMockStore(t)

	mock.ExpectQuery(`WHERE\s+email\s*=\s*\$1`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := st.Users().GetUserByEmail(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Users().GetUserByToken(context.Background(), "")
	require.ErrorIs(t, err, store.ErrNotFound, "empty token never reaches the database")
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		constraint string
		field      string
	}{
		{"users_username_key", "username"},
		{"users_email_key", "email"},
		{"users_pkey", "id"},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			st, mock := newMockStore(t)

			mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+users\s*\(id,\s*username,\s*email,\s*password_hash,\s*created_at,\s*updated_at\)`).
				WithArgs("01J", "alice", "alice@example.com", "hash", sqlmock.AnyArg()).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			err := st.Users().CreateUser(context.Background(), domain.User{
				ID: "01J", Username: "alice", Email: "alice@example.com", PasswordHash: "hash",
			})

			var ce *store.ConflictError
			require.True(t, errors.As(err, &ce))
			require.Equal(t, tt.field, ce.Field)
			require.ErrorIs(t, err, store.ErrAlreadyExists)
		})
	}
}

func TestCreateUser_OtherError(t *testing.T) {
	t.Parallel()
	st, mock := newMockStore(t)

	mock.ExpectExec(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23502", ColumnName: "email"})

	err := st.Users().CreateUser(context.Background(), domain.User{ID: "01J", Username: "a", PasswordHash: "h"})
	require.Error(t, err)
	require.NotErrorIs(t, err, store.ErrAlreadyExists)
}

func TestSetToken(t *testing.T) {
	t.Parallel()
	const q = `(?s)UPDATE\s+users\s+SET\s+token\s*=\s*\$1,\s*token_expiration\s*=\s*\$2.*WHERE\s+id\s*=\s*\$3\s+AND\s+token\s+IS\s+NOT\s+DISTINCT\s+FROM\s+\$4`
	exp := time.Now().Add(time.Hour)

	t.Run("swap succeeds", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectExec(q).
			WithArgs("new", sqlmock.AnyArg(), "01J", nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, st.Users().SetToken(context.Background(), "01J", "", "new", exp))
	})

	t.Run("lost race", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectExec(q).
			WithArgs("new", sqlmock.AnyArg(), "01J", "old").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`WHERE\s+id\s*=\s*\$1`).
			WithArgs("01J").
			WillReturnRows(sqlmock.NewRows(rowColumns).
				AddRow("01J", "alice", "a@example.com", "h", "winner", exp, exp, exp))

		err := st.Users().SetToken(context.Background(), "01J", "old", "new", exp)
		require.ErrorIs(t, err, store.ErrStaleToken)
	})

	t.Run("missing user", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`WHERE\s+id\s*=\s*\$1`).WillReturnError(sql.ErrNoRows)

		err := st.Users().SetToken(context.Background(), "01J", "", "new", exp)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("token collision", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectExec(q).WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_token_key"})

		err := st.Users().SetToken(context.Background(), "01J", "", "new", exp)
		var ce *store.ConflictError
		require.True(t, errors.As(err, &ce))
		require.Equal(t, "token", ce.Field)
	})
}

func TestClearExpiredTokens(t *testing.T) {
	t.Parallel()
	st, mock := newMockStore(t)

	mock.ExpectExec(`(?s)UPDATE\s+users\s+SET\s+token\s*=\s*NULL,\s*token_expiration\s*=\s*NULL\s+WHERE\s+token\s+IS\s+NOT\s+NULL\s+AND\s+token_expiration\s*<\s*\$1`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := st.Users().ClearExpiredTokens(context.Background(), time.Now())
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}

func TestListUsers(t *testing.T) {
	t.Parallel()
	st, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`(?s)FROM\s+users\s+ORDER\s+BY\s+id\s+COLLATE\s+"C"\s+LIMIT\s+\$1\s+OFFSET\s+\$2`).
		WithArgs(2, 10).
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow("01A", "a", "a@example.com", "h", nil, nil, now, now).
			AddRow("01B", "b", "b@example.com", "h", nil, nil, now, now))

	n, err := st.Users().CountUsers(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12, n)

	users, err := st.Users().ListUsers(context.Background(), 10, 2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "01A", users[0].ID)
	require.Equal(t, "01B", users[1].ID)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	t.Parallel()
	st, mock := newMockStore(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE\s+users\s+SET\s+username`).
		WithArgs("bob", "bob@example.com", "01J").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := st.WithTx(context.Background(), func(tx store.Tx) error {
		require.NoError(t, tx.Users().UpdateProfile(context.Background(), "01J", "bob", "bob@example.com"))
		return boom
	})
	require.ErrorIs(t, err, boom)
}

func TestWithTx_Commits(t *testing.T) {
	t.Parallel()
	st, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE\s+users\s+SET\s+username`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, st.WithTx(context.Background(), func(tx store.Tx) error {
		return tx.Users().UpdateProfile(context.Background(), "01J", "bob", "bob@example.com")
	}))
}

func TestUpdateProfile_MissingUserInTx(t *testing.T) {
	t.Parallel()
	st, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE\s+users\s+SET\s+username`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := st.WithTx(context.Background(), func(tx store.Tx) error {
		return tx.Users().UpdateProfile(context.Background(), "missing", "x", "x@example.com")
	})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestApplyMigrations_UsesGoose(t *testing.T) {
	st, _ := newMockStore(t)

	var calledDir string
	orig := gooseUp
	gooseUp = func(_ context.Context, _ *sql.DB, dir string) error {
		calledDir = dir
		return nil
	}
	t.Cleanup(func() { gooseUp = orig })

	require.NoError(t, st.ApplyMigrations())
	require.Equal(t, ".", calledDir)
}
