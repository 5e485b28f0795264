package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/userdir/pkg/slogx"
)

// Authenticator resolves an opaque bearer token to the caller it belongs to.
// It is consulted on every request; there is no session fallback.
type Authenticator interface {
	AuthenticateBearer(ctx context.Context, token string) (Principal, error)
}

// AuthnMiddleware rejects requests without a valid bearer token and stores the
// authenticated principal in the request context. Unknown and expired tokens
// are answered identically.
func AuthnMiddleware(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			p, err := a.AuthenticateBearer(ctx, raw)
			if err != nil {
				log.Info("bearer authentication failed", "err", err)
				writeBearerError(w, "invalid or expired token")
				return
			}

			ctx = ContextWithPrincipal(ctx, p)
			ctx = slogx.With(ctx, "user_id", p.PrincipalID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "invalid_token",
		"error_description": "the access token is missing, invalid or expired",
	})
}
