package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport covers anything that kept a usable answer from arriving:
	// dial failures, timeouts, undecodable bodies.
	ErrTransport = errors.New("backend unreachable")
	// ErrBackend means the backend answered but reported failure.
	ErrBackend = errors.New("backend reported failure")
)

type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return ErrBackend }

// Message returns the text worth showing to a user for err.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
