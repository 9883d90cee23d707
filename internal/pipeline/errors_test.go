package pipeline

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "without status code",
			err:      InvalidArgument("bad ticker %q", "ZZ!!"),
			expected: `invalid argument error: bad ticker "ZZ!!"`,
		},
		{
			name:     "with status code",
			err:      ClassifyHTTPStatus(404),
			expected: "fetch error (status 404): resource not found",
		},
		{
			name:     "schema",
			err:      SchemaViolation("missing price"),
			expected: "schema error: missing price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestClassifyHTTPStatus(t *testing.T) {
	tests := []struct {
		status  int
		message string
	}{
		{404, "resource not found"},
		{429, "rate limit exceeded"},
		{500, "server returned an error"},
		{503, "server returned an error"},
		{400, "request rejected"},
		{302, "unexpected status code"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.status), func(t *testing.T) {
			err := ClassifyHTTPStatus(tt.status)
			if err.Class != ClassFetch {
				t.Errorf("Class = %q, want %q", err.Class, ClassFetch)
			}
			if err.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tt.status)
			}
			if err.Message != tt.message {
				t.Errorf("Message = %q, want %q", err.Message, tt.message)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := FetchFailed(cause, "failed to fetch quote")

	if !errors.Is(err, cause) {
		t.Error("errors.Is() did not find the wrapped cause")
	}
}

func TestIsClass(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", SchemaViolation("missing field"))

	if !IsClass(wrapped, ClassSchema) {
		t.Error("IsClass() = false for a wrapped schema error, want true")
	}
	if IsClass(wrapped, ClassFetch) {
		t.Error("IsClass() = true for the wrong class, want false")
	}
	if IsClass(errors.New("plain"), ClassSchema) {
		t.Error("IsClass() = true for a plain error, want false")
	}
}
