package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches 401 responses.
	ErrUnauthorized = errors.New("not signed in, run 'dayglow login'")
	// ErrNotFound matches 404 responses.
	ErrNotFound = errors.New("record not found")
	// ErrNoAppID is returned by New when the app id is missing.
	ErrNoAppID = errors.New("backend app id is required")
)

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Body)
}

// NetworkError marks gateway failures as transient for retry.IsNetworkError.
func (e *StatusError) NetworkError() bool {
	switch e.Code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Code == http.StatusUnauthorized
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	}
	return false
}
