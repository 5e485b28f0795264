package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/aussiebroadwan/userdir/internal/users/domain"
	"github.com/aussiebroadwan/userdir/internal/users/store"
)

// Field messages returned to clients.
const (
	msgInvalidUsername = "Please provide a valid username."
	msgInvalidEmail    = "Please provide a valid email address."
	msgInvalidPassword = "Please provide a valid password."

	msgTakenUsernameCreate = "Please provide a different username"
	msgTakenEmailCreate    = "Please provide a different email"
	msgTakenUsernameUpdate = "Please use a different username."
	msgTakenEmailUpdate    = "Please use a different email address."
)

var emailPattern = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)

// ValidEmail reports whether s is a syntactically valid email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

type CreateUserInput struct {
	Username string
	Email    string
	Password string
}

func (in CreateUserInput) normalize() CreateUserInput {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	return in
}

// UpdateUserInput holds the optional profile fields of an update. A nil field
// is left untouched.
type UpdateUserInput struct {
	Username *string
	Email    *string
}

func (in UpdateUserInput) normalize() UpdateUserInput {
	if in.Username != nil {
		v := strings.TrimSpace(*in.Username)
		in.Username = &v
	}
	if in.Email != nil {
		v := strings.TrimSpace(*in.Email)
		in.Email = &v
	}
	return in
}

// Validator checks request fields before anything is written. Uniqueness is
// looked up through Users, which may be scoped to a transaction.
type Validator struct {
	Users store.Users
}

// ValidateCreate returns the rejected fields of in, or nil when it is valid.
func (v Validator) ValidateCreate(ctx context.Context, in CreateUserInput) (map[string]string, error) {
	in = in.normalize()
	fields := map[string]string{}

	if in.Username == "" {
		fields["username"] = msgInvalidUsername
	} else if taken, err := v.usernameTaken(ctx, in.Username, ""); err != nil {
		return nil, err
	} else if taken {
		fields["username"] = msgTakenUsernameCreate
	}

	if !ValidEmail(in.Email) {
		fields["email"] = msgInvalidEmail
	} else if taken, err := v.emailTaken(ctx, in.Email, ""); err != nil {
		return nil, err
	} else if taken {
		fields["email"] = msgTakenEmailCreate
	}

	if in.Password == "" {
		fields["password"] = msgInvalidPassword
	}

	if len(fields) == 0 {
		return nil, nil
	}
	return fields, nil
}

// ValidateUpdate checks the present fields of in against the current record.
// Keeping the current username or email is never a collision.
func (v Validator) ValidateUpdate(ctx context.Context, current domain.User, in UpdateUserInput) (map[string]string, error) {
	in = in.normalize()
	fields := map[string]string{}

	if in.Username != nil {
		switch {
		case *in.Username == "":
			fields["username"] = msgInvalidUsername
		case *in.Username != current.Username:
			taken, err := v.usernameTaken(ctx, *in.Username, current.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				fields["username"] = msgTakenUsernameUpdate
			}
		}
	}

	if in.Email != nil {
		switch {
		case !ValidEmail(*in.Email):
			fields["email"] = msgInvalidEmail
		case *in.Email != current.Email:
			taken, err := v.emailTaken(ctx, *in.Email, current.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				fields["email"] = msgTakenEmailUpdate
			}
		}
	}

	if len(fields) == 0 {
		return nil, nil
	}
	return fields, nil
}

func (v Validator) usernameTaken(ctx context.Context, username, selfID string) (bool, error) {
	u, err := v.Users.GetUserByUsername(ctx, username)
	return takenBy(u, err, selfID)
}

func (v Validator) emailTaken(ctx context.Context, email, selfID string) (bool, error) {
	u, err := v.Users.GetUserByEmail(ctx, email)
	return takenBy(u, err, selfID)
}

// takenBy interprets a unique lookup: the value is taken when it belongs to
// a user other than selfID.
func takenBy(u domain.User, err error, selfID string) (bool, error) {
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("uniqueness lookup: %w", err)
	}
	return u.ID != selfID, nil
}
