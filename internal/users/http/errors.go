package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/userdir/internal/users/service"
	"github.com/aussiebroadwan/userdir/pkg/slogx"
	"github.com/aussiebroadwan/userdir/pkg/usersdk"
)

// writeError maps a service error to its response. Anything unexpected is
// logged and answered with 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		(&usersdk.ValidationError{Fields: verr.Fields}).WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		usersdk.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrUnauthenticated):
		usersdk.ErrInvalidToken.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		usersdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrNotImplemented):
		usersdk.ErrNotImplemented.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		usersdk.ErrServerError.WriteError(w)
	}
}
