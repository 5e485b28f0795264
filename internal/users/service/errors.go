package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrNotImplemented     = errors.New("not implemented")
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrUnauthenticated matches every bearer token failure. Callers that
	// only need to answer 401 should test for it instead of the specific
	// causes below.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrTokenNotFound   = fmt.Errorf("%w: token not found", ErrUnauthenticated)
	ErrTokenExpired    = fmt.Errorf("%w: token expired", ErrUnauthenticated)
)

// ValidationError carries every rejected field of a request together with a
// message fit for the client.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}
