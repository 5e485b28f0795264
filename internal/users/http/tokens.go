package http

import (
	"net/http"

	"github.com/aussiebroadwan/userdir/internal/users/domain"
	"github.com/aussiebroadwan/userdir/internal/users/service"
	"github.com/aussiebroadwan/userdir/pkg/httpx"
	"github.com/aussiebroadwan/userdir/pkg/usersdk"
)

// TokensHandler exchanges credentials for bearer tokens.
type TokensHandler struct {
	TokenService *service.TokenService
}

// HandleIssue handles POST /api/tokens
//
//	@Summary		Issue Token
//	@Description	Exchanges HTTP Basic credentials for the user's bearer token. A token with more than a minute left is returned unchanged.
//	@Tags			Tokens
//	@Produce		json
//	@Security		BasicAuth
//	@Success		200	{object}	usersdk.TokenResponse	"token, token_type, expires_at"
//	@Failure		401	{object}	usersdk.ErrorResponse	"error, error_description"
//	@Failure		429	{object}	usersdk.ErrorResponse	"error, error_description"
//	@Router			/api/tokens [post].
func (h *TokensHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	username, password, ok := r.BasicAuth()
	if !ok {
		usersdk.ErrInvalidCredentials.WriteError(w)
		return
	}

	user, err := h.TokenService.Login(r.Context(), username, password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, usersdk.TokenResponse{
		Token:     user.Token,
		TokenType: "Bearer",
		ExpiresAt: user.TokenExpiration.UTC(),
	})
}

// HandleRevoke handles DELETE /api/tokens
//
//	@Summary		Revoke Token
//	@Description	Expires the caller's bearer token immediately.
//	@Tags			Tokens
//	@Security		BearerAuth
//	@Success		204	"token revoked"
//	@Failure		401	{object}	usersdk.ErrorResponse	"error, error_description"
//	@Router			/api/tokens [delete].
func (h *TokensHandler) HandleRevoke(w http.ResponseWriter, r *http.Request, caller domain.User) {
	if err := h.TokenService.RevokeToken(r.Context(), caller); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
