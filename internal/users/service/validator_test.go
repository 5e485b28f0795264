package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/userdir/internal/users/domain"
	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{
		"user@example.com",
		"user.name@sub.example.co",
		"first+tag@example.org",
		`"quoted local"@example.com`,
		"ops@[192.168.0.1]",
	}
	for _, s := range valid {
		require.True(t, ValidEmail(s), s)
	}

	invalid := []string{
		"user@",
		"user@.com",
		"plainstring",
		"",
		"user@example",
		"user@example.c",
		"a b@example.com",
		"user..name@example.com",
		".user@example.com",
	}
	for _, s := range invalid {
		require.False(t, ValidEmail(s), s)
	}
}

func TestValidateCreate(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)
	mustCreate(t, svc, "alice")
	v := Validator{Users: svc.Store.Users()}

	t.Run("valid", func(t *testing.T) {
		fields, err := v.ValidateCreate(ctx, CreateUserInput{Username: "bob", Email: "bob@example.com", Password: "pw"})
		require.NoError(t, err)
		require.Nil(t, fields)
	})

	t.Run("accumulates every failure", func(t *testing.T) {
		fields, err := v.ValidateCreate(ctx, CreateUserInput{Username: "  ", Email: "nope"})
		require.NoError(t, err)
		require.Equal(t, map[string]string{
			"username": "Please provide a valid username.",
			"email":    "Please provide a valid email address.",
			"password": "Please provide a valid password.",
		}, fields)
	})

	t.Run("duplicates", func(t *testing.T) {
		fields, err := v.ValidateCreate(ctx, CreateUserInput{Username: "alice", Email: "alice@example.com", Password: "pw"})
		require.NoError(t, err)
		require.Equal(t, map[string]string{
			"username": "Please provide a different username",
			"email":    "Please provide a different email",
		}, fields)
	})

	t.Run("trims before checking", func(t *testing.T) {
		fields, err := v.ValidateCreate(ctx, CreateUserInput{Username: " alice ", Email: "new@example.com", Password: "pw"})
		require.NoError(t, err)
		require.Equal(t, map[string]string{"username": "Please provide a different username"}, fields)
	})
}

func TestValidateUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)
	aliceID := mustCreate(t, svc, "alice")
	mustCreate(t, svc, "bob")

	alice, err := svc.GetUser(ctx, aliceID)
	require.NoError(t, err)
	v := Validator{Users: svc.Store.Users()}

	tests := []struct {
		name string
		in   UpdateUserInput
		want map[string]string
	}{
		{name: "nothing present", in: UpdateUserInput{}},
		{name: "unchanged values", in: UpdateUserInput{Username: ptr("alice"), Email: ptr("alice@example.com")}},
		{name: "new free values", in: UpdateUserInput{Username: ptr("alicia"), Email: ptr("alicia@example.com")}},
		{
			name: "empty username",
			in:   UpdateUserInput{Username: ptr("")},
			want: map[string]string{"username": "Please provide a valid username."},
		},
		{
			name: "bad email",
			in:   UpdateUserInput{Email: ptr("user@")},
			want: map[string]string{"email": "Please provide a valid email address."},
		},
		{
			name: "taken by another user",
			in:   UpdateUserInput{Username: ptr("bob"), Email: ptr("bob@example.com")},
			want: map[string]string{
				"username": "Please use a different username.",
				"email":    "Please use a different email address.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := v.ValidateUpdate(ctx, alice, tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, fields)
		})
	}
}

func TestValidateUpdate_IgnoresUnknownCurrent(t *testing.T) {
	svc := newUserService(t)
	mustCreate(t, svc, "alice")

	// A stale copy with a different id still sees "alice" as taken.
	fields, err := Validator{Users: svc.Store.Users()}.ValidateUpdate(context.Background(),
		domain.User{ID: "other", Username: "someone"}, UpdateUserInput{Username: ptr("alice")})
	require.NoError(t, err)
	require.Contains(t, fields, "username")
}
