package usersdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListUsers fetches one page of the directory. Zero values use the server
// defaults.
func (s *Session) ListUsers(ctx context.Context, page, perPage int) (*UserListResponse, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}
	path := "/api/users"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := s.client.doRequest(ctx, http.MethodGet, path, nil, s.token)
	if err != nil {
		return nil, err
	}

	var out UserListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUser fetches a user including their email.
func (s *Session) GetUser(ctx context.Context, id string) (*UserResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, s.token)
	if err != nil {
		return nil, err
	}

	var out UserResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser changes the username and/or email of a user.
func (s *Session) UpdateUser(ctx context.Context, id string, in UpdateUserRequest) (*UserResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id), in, s.token)
	if err != nil {
		return nil, err
	}

	var out UserResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser is answered with ErrNotImplemented by current servers.
func (s *Session) DeleteUser(ctx context.Context, id string) error {
	resp, err := s.client.doRequest(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(id), nil, s.token)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Revoke expires the session's token immediately.
func (s *Session) Revoke(ctx context.Context) error {
	resp, err := s.client.doRequest(ctx, http.MethodDelete, "/api/tokens", nil, s.token)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
