package usersdk

import (
	"time"

	"github.com/aussiebroadwan/userdir/pkg/pagex"
)

// ============================================================================
// Error Types (used for JSON unmarshaling)
// ============================================================================

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ValidationErrorResponse is the 400 body returned when a create or update
// payload fails validation. Details maps field name to message and lists every
// failing field at once.
type ValidationErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// ============================================================================
// User Types
// ============================================================================

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest is the body of PUT /api/users/{id}. Nil fields are left
// untouched.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// UserLinks holds the resource's own URL.
type UserLinks struct {
	Self string `json:"self"`
}

// UserResponse is the public representation of a user. Email is only
// populated on the single-user endpoints; listings omit it.
type UserResponse struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email,omitempty"`
	Links    UserLinks `json:"_links"`
}

// UserListResponse is the pagination envelope of GET /api/users.
type UserListResponse = pagex.Page[UserResponse]

// ============================================================================
// Token Types
// ============================================================================

// TokenResponse is returned from POST /api/tokens.
type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz. Checks is only set by
// /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency.
type HealthChecks struct {
	Database string `json:"database"`
}
