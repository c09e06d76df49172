package rudimedia

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes the handlers branch on.
var (
	// ErrInvalidCredentials is returned by Login when the backend rejects
	// the username/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is returned when a bearer token is rejected by the
	// backend. Callers clear the session and redirect to login.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when a post id or slug exists in neither the
	// primary source nor the fallback dataset.
	ErrNotFound = errors.New("not found")
)

// APIError is a non-2xx backend response that is not one of the sentinel
// cases above. It carries the status and the backend's detail message.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Detail)
}

// ValidationError reports a required draft field missing before submission.
// Validation happens client-side only; the backend contract is not duplicated.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "missing required field: " + e.Field
}

// isTransport reports whether err is a transport-level failure rather than a
// response the backend produced. For public reads this triggers fallback; for
// mutations it surfaces as a generic retryable message.
func isTransport(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	return !errors.Is(err, ErrInvalidCredentials) &&
		!errors.Is(err, ErrUnauthorized) &&
		!errors.Is(err, ErrNotFound)
}
