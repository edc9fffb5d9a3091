package gateway

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a getById against an absent resource.
var ErrNotFound = errors.New("gateway: resource not found")

// APIError carries a non-2xx response from a collaborator gateway.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("gateway: unexpected status %d: %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err stems from a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
