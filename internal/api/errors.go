package api

import (
	"errors"
	"fmt"
)

var ErrInvalidProduct = errors.New("product input is invalid")

// StatusError is a non-success backend response. Body is the raw response
// text, treated as opaque diagnostics to surface to the user.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Body)
}
