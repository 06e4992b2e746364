package provider

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrAuthFailed     = errors.New("authentication failed")
	ErrNotFound       = errors.New("not found")
	ErrRateLimited    = errors.New("rate limited")
	ErrServerNotFound = errors.New("server not found")
)

// StatusError is a non-2xx response from a CI server. It matches the
// sentinel errors above through errors.Is so callers can classify it
// without parsing messages.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("CI API request failed with status %d: %s", e.StatusCode, e.Body)
}

// Is classifies the status code.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrAuthFailed:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// UserError wraps errors with user-friendly messages
type UserError struct {
	Message string
	Hint    string
	Err     error
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n\nDetails: %v", e.Err)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// WrapError converts API errors to user-friendly messages
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrInvalidRepo) {
		return &UserError{
			Message: "Invalid repository",
			Hint:    "Use owner/name (e.g. acme/api) or a numeric Woodpecker repository id.",
			Err:     err,
		}
	}

	if errors.Is(err, ErrServerNotFound) {
		return &UserError{
			Message: "Server not found",
			Hint:    "Run 'moirai servers' to list configured servers.\n  - Single server: CI_SERVER_URL, CI_SERVER_TOKEN\n  - Numbered: CI_SERVER_1_URL, CI_SERVER_1_TOKEN, ...",
			Err:     err,
		}
	}

	if errors.Is(err, ErrAuthFailed) {
		return &UserError{
			Message: "Authentication failed",
			Hint:    "Check that the server's API token is valid and can read the repository.",
			Err:     err,
		}
	}

	if errors.Is(err, ErrNotFound) {
		return &UserError{
			Message: "Repository not found",
			Hint:    "Check the repository name and that it is activated on the CI server.",
			Err:     err,
		}
	}

	if errors.Is(err, ErrRateLimited) {
		return &UserError{
			Message: "Rate limited by CI server",
			Hint:    "Wait a moment and retry, or lower BUILDS_PER_PAGE.",
			Err:     err,
		}
	}

	return err
}
