package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/aussiebroadwan/userdir/pkg/usersdk"
	"github.com/stretchr/testify/require"
)

func TestIssueToken(t *testing.T) {
	s := newTestServer(t, generousLimits())
	s.signup(t, "alice")

	rec := s.do(t, http.MethodPost, "/api/tokens", nil, basic("alice", "pw-alice"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	first := decode[usersdk.TokenResponse](t, rec)
	require.Equal(t, "Bearer", first.TokenType)
	require.Len(t, first.Token, 32)
	require.WithinDuration(t, time.Now().Add(time.Hour), first.ExpiresAt, time.Minute)

	rec = s.do(t, http.MethodPost, "/api/tokens", nil, basic("alice", "pw-alice"))
	second := decode[usersdk.TokenResponse](t, rec)
	require.Equal(t, first.Token, second.Token, "fresh token is reused")
}

func TestIssueToken_BadCredentials(t *testing.T) {
	s := newTestServer(t, generousLimits())
	s.signup(t, "alice")

	tests := []struct {
		name  string
		setup func(*http.Request)
	}{
		{"no header", nil},
		{"wrong password", basic("alice", "nope")},
		{"unknown user", basic("mallory", "pw-alice")},
		{"bearer instead of basic", bearer("x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/tokens", nil, tt.setup)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")
			require.Equal(t, "invalid_credentials", decode[usersdk.ErrorResponse](t, rec).Error)
		})
	}
}

func TestRevokeToken(t *testing.T) {
	s := newTestServer(t, generousLimits())
	_, token := s.signup(t, "alice")

	rec := s.do(t, http.MethodDelete, "/api/tokens", nil, bearer(token))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/users", nil, bearer(token))
	require.Equal(t, http.StatusUnauthorized, rec.Code, "revoked token is expired")

	rec = s.do(t, http.MethodPost, "/api/tokens", nil, basic("alice", "pw-alice"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEqual(t, token, decode[usersdk.TokenResponse](t, rec).Token)
}
