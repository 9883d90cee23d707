package pipeline

import (
	"errors"
	"fmt"
)

// Class categorizes a pipeline failure for the top-level error reporter.
type Class string

const (
	// ClassInvalidArgument indicates a bad identifier or mode selector
	ClassInvalidArgument Class = "invalid argument"
	// ClassFetch indicates a network or data-source failure (unreachable
	// endpoint, invalid symbol, unavailable video, unsupported input format)
	ClassFetch Class = "fetch"
	// ClassSchema indicates the source responded but the payload was missing
	// expected fields
	ClassSchema Class = "schema"
	// ClassIO indicates the output destination could not be written
	ClassIO Class = "io"
)

// Error is the structured error carried through the pipeline. Every failure
// a tool reports belongs to exactly one Class so the CLI can print a single
// consistent line and exit non-zero.
type Error struct {
	Class      Class
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Class, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Class, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Cause
}

// InvalidArgument creates an invalid-argument error
func InvalidArgument(format string, args ...any) *Error {
	return &Error{
		Class:   ClassInvalidArgument,
		Message: fmt.Sprintf(format, args...),
	}
}

// FetchFailed creates a fetch error wrapping an underlying cause
func FetchFailed(cause error, format string, args ...any) *Error {
	return &Error{
		Class:   ClassFetch,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// SchemaViolation creates a schema error
func SchemaViolation(format string, args ...any) *Error {
	return &Error{
		Class:   ClassSchema,
		Message: fmt.Sprintf(format, args...),
	}
}

// IOFailed creates an io error wrapping an underlying cause
func IOFailed(cause error, format string, args ...any) *Error {
	return &Error{
		Class:   ClassIO,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// ClassifyHTTPStatus converts a non-success HTTP status into a fetch error
// with a message appropriate to the status family.
func ClassifyHTTPStatus(statusCode int) *Error {
	var message string
	switch {
	case statusCode == 404:
		message = "resource not found"
	case statusCode == 429:
		message = "rate limit exceeded"
	case statusCode >= 500:
		message = "server returned an error"
	case statusCode >= 400:
		message = "request rejected"
	default:
		message = "unexpected status code"
	}
	return &Error{
		Class:      ClassFetch,
		StatusCode: statusCode,
		Message:    message,
	}
}

// IsClass reports whether err (or anything it wraps) is a pipeline error of
// the given class.
func IsClass(err error, class Class) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Class == class
	}
	return false
}
