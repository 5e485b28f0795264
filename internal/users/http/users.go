package http

import (
	"net/http"

	"github.com/aussiebroadwan/userdir/internal/users/domain"
	"github.com/aussiebroadwan/userdir/internal/users/service"
	"github.com/aussiebroadwan/userdir/pkg/httpx"
	"github.com/aussiebroadwan/userdir/pkg/pagex"
	"github.com/aussiebroadwan/userdir/pkg/usersdk"
)

const usersPath = "/api/users"

// UsersHandler serves the user resource endpoints.
type UsersHandler struct {
	UserService *service.UserService
}

// HandleCreate handles POST /api/users
//
//	@Summary		Create User
//	@Description	Creates an account. Every invalid or already used field is reported at once.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		usersdk.CreateUserRequest			true	"username, email, password"
//	@Success		201		{object}	usersdk.UserResponse				"created user, Location header points at it"
//	@Failure		400		{object}	usersdk.ValidationErrorResponse		"code, message, details"
//	@Failure		429		{object}	usersdk.ErrorResponse				"error, error_description"
//	@Failure		500		{object}	usersdk.ErrorResponse				"error, error_description"
//	@Router			/api/users [post].
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req usersdk.CreateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		usersdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.CreateUser(r.Context(), service.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := toUserResponse(user, true)
	w.Header().Set("Location", resp.Links.Self)
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

// HandleList handles GET /api/users
//
//	@Summary		List Users
//	@Description	Returns one page of users ordered by id. Emails are not included.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			page		query		int							false	"page number, default 1"
//	@Param			per_page	query		int							false	"page size, default 10, max 100"
//	@Success		200			{object}	usersdk.UserListResponse	"items, _meta, _links"
//	@Failure		401			{object}	usersdk.ErrorResponse		"error, error_description"
//	@Failure		429			{object}	usersdk.ErrorResponse		"error, error_description"
//	@Router			/api/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request, _ domain.User) {
	query := r.URL.Query()
	page, err := h.UserService.ListUsers(r.Context(),
		pagex.ParseRequest(query),
		pagex.Endpoint{Path: usersPath, Query: query},
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pagex.Map(page, func(u domain.User) usersdk.UserResponse {
		return toUserResponse(u, false)
	}))
}

// HandleGet handles GET /api/users/{id}
//
//	@Summary		Get User
//	@Description	Returns the full representation of a user, including email.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"user id"
//	@Success		200	{object}	usersdk.UserResponse	"id, username, email, _links"
//	@Failure		401	{object}	usersdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	usersdk.ErrorResponse	"error, error_description"
//	@Router			/api/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request, _ domain.User) {
	user, err := h.UserService.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user, true))
}

// HandleUpdate handles PUT /api/users/{id}
//
//	@Summary		Update User
//	@Description	Changes username and/or email. Omitted fields are left untouched; the password cannot be changed here.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string							true	"user id"
//	@Param			request	body		usersdk.UpdateUserRequest		true	"username and/or email"
//	@Success		200		{object}	usersdk.UserResponse			"updated user"
//	@Failure		400		{object}	usersdk.ValidationErrorResponse	"code, message, details"
//	@Failure		401		{object}	usersdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	usersdk.ErrorResponse			"error, error_description"
//	@Router			/api/users/{id} [put].
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request, _ domain.User) {
	var req usersdk.UpdateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		usersdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.UpdateUser(r.Context(), r.PathValue("id"), service.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user, true))
}

// HandleDelete handles DELETE /api/users/{id}
//
//	@Summary		Delete User
//	@Description	Deleting users is not supported and always answers 501.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"user id"
//	@Failure		401	{object}	usersdk.ErrorResponse	"error, error_description"
//	@Failure		501	{object}	usersdk.ErrorResponse	"error, error_description"
//	@Router			/api/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request, _ domain.User) {
	writeError(w, r, h.UserService.DeleteUser(r.Context(), r.PathValue("id")))
}

func toUserResponse(u domain.User, withEmail bool) usersdk.UserResponse {
	resp := usersdk.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Links:    usersdk.UserLinks{Self: usersPath + "/" + u.ID},
	}
	if withEmail {
		resp.Email = u.Email
	}
	return resp
}
