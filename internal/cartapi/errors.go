package cartapi

import (
	"fmt"
	"net/http"
)

// Error is returned by every Client operation that did not succeed:
// a non-2xx response, or a transport failure (Status 0) such as a timeout.
type Error struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("cart service %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("cart service %s: %d %s", e.Op, e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports whether the backend answered 404.
func (e *Error) NotFound() bool { return e.Status == http.StatusNotFound }
