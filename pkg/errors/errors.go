package errors

import (
	stdErrors "errors"
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NetworkError is a transport-level failure: the request never produced a response.
type NetworkError struct {
	Op  string
	Err error
}

// NewNetworkError constructs a NetworkError for the named operation.
func NewNetworkError(op string, err error) error {
	return &NetworkError{Op: op, Err: err}
}

func (e *NetworkError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

// Unwrap exposes the transport error.
func (e *NetworkError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// HTTPError reports a response whose status is outside the 2xx range.
type HTTPError struct {
	Op      string
	Status  int
	Message string
}

// NewHTTPError constructs an HTTPError. Message is the server's explanation, if any.
func NewHTTPError(op string, status int, message string) error {
	return &HTTPError{Op: op, Status: status, Message: message}
}

func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return fmt.Sprintf("%s failed: status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s failed: status %d", e.Op, e.Status)
}

// DecodeError reports a response body that does not have the expected shape.
type DecodeError struct {
	Op  string
	Err error
}

// NewDecodeError constructs a DecodeError.
func NewDecodeError(op string, err error) error {
	return &DecodeError{Op: op, Err: err}
}

func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("invalid response for %s: %v", e.Op, e.Err)
}

// Unwrap exposes the decoding error.
func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures field validation issues, raised locally before a
// request or reported by the server.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NotFoundError reports that the targeted record does not exist on the server.
type NotFoundError struct {
	ID string
}

// NewNotFoundError constructs a NotFoundError for the record id.
func NewNotFoundError(id string) error {
	return &NotFoundError{ID: id}
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("student %q not found", e.ID)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return stdErrors.As(err, &target)
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return stdErrors.As(err, &target)
}

// IsNetwork reports whether err is or wraps a NetworkError.
func IsNetwork(err error) bool {
	var target *NetworkError
	return stdErrors.As(err, &target)
}

// StatusCode returns the HTTP status carried by err, or 0 when it has none.
func StatusCode(err error) int {
	var target *HTTPError
	if stdErrors.As(err, &target) {
		return target.Status
	}
	return 0
}
