package provider

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestStatusError_Is(t *testing.T) {
	tests := []struct {
		status int
		target error
		want   bool
	}{
		{401, ErrAuthFailed, true},
		{403, ErrAuthFailed, true},
		{404, ErrNotFound, true},
		{429, ErrRateLimited, true},
		{500, ErrAuthFailed, false},
		{404, ErrRateLimited, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.status), func(t *testing.T) {
			err := fmt.Errorf("fetch: %w", &StatusError{StatusCode: tt.status})
			if got := errors.Is(err, tt.target); got != tt.want {
				t.Errorf("errors.Is(%d, %v) = %v, want %v", tt.status, tt.target, got, tt.want)
			}
		})
	}
}

func TestWrapError_InvalidRepo(t *testing.T) {
	_, err := ParseRepo("not-a-repo")
	wrapped := WrapError(err)

	userErr, ok := wrapped.(*UserError)
	if !ok {
		t.Fatalf("WrapError() returned %T, want *UserError", wrapped)
	}
	if userErr.Message != "Invalid repository" {
		t.Errorf("Message = %q, want %q", userErr.Message, "Invalid repository")
	}
	if !strings.Contains(userErr.Hint, "owner/name") {
		t.Errorf("Hint should mention owner/name, got %q", userErr.Hint)
	}
	if !errors.Is(wrapped, ErrInvalidRepo) {
		t.Error("errors.Is(wrapped, ErrInvalidRepo) = false, want true")
	}
}

func TestWrapError_AuthFailed(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"sentinel", ErrAuthFailed},
		{"status 401", &StatusError{StatusCode: 401, Body: "unauthorized"}},
		{"wrapped status 403", fmt.Errorf("request failed: %w", &StatusError{StatusCode: 403})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userErr, ok := WrapError(tt.err).(*UserError)
			if !ok {
				t.Fatalf("WrapError() did not return *UserError")
			}
			if userErr.Message != "Authentication failed" {
				t.Errorf("Message = %q, want %q", userErr.Message, "Authentication failed")
			}
			if !strings.Contains(userErr.Hint, "API token") {
				t.Errorf("Hint should mention API token, got %q", userErr.Hint)
			}
		})
	}
}

func TestWrapError_Passthrough(t *testing.T) {
	if WrapError(nil) != nil {
		t.Error("WrapError(nil) should return nil")
	}

	plain := errors.New("connection reset")
	if got := WrapError(plain); got != plain {
		t.Errorf("WrapError() = %v, want original error", got)
	}
}

func TestUserError_Error(t *testing.T) {
	err := &UserError{Message: "Server not found", Hint: "check config", Err: errors.New("server-9")}
	msg := err.Error()
	for _, want := range []string{"Server not found", "Hint: check config", "Details: server-9"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}
