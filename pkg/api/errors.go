package api

import (
	"errors"
	"fmt"
)

// NetworkError means no response was received at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError means the server answered with a 4xx/5xx status.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error %d", e.Status)
}

// AsServerError checks if an error is a ServerError and returns it.
func AsServerError(err error) (*ServerError, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsNetworkError reports whether err means no response was received.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	se, ok := AsServerError(err)
	return ok && se.Status == 401
}
