package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// UnavailableMessage is reported through the OnUnavailable hook whenever a
// request gets no response at all.
const UnavailableMessage = "Unable to connect to the server. Please try again later."

// APIError is a response the server did send, with status >= 400.
// Message is the server-supplied text, empty when the body carried none.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// Is lets errors.Is match an APIError against the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	}
	return false
}

// ServerMessage returns the server-supplied message carried by err, if any.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}
