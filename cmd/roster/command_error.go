package main

import (
	"fmt"

	rostererrors "github.com/alexisbeaulieu97/roster/pkg/errors"
)

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func (e *commandError) Error() string {
	return fmt.Sprintf("Failed to %s: %s\n\nError: %v\n\nSuggestion: %s", e.operation, e.context, e.cause, e.suggestion)
}

func (e *commandError) Unwrap() error {
	return e.cause
}

// gatewaySuggestion picks advice for a failed API call.
func gatewaySuggestion(err error, host string) string {
	switch {
	case rostererrors.IsNetwork(err):
		return fmt.Sprintf("Make sure the API server is running at %s, or start one with 'roster devserver'.", host)
	case rostererrors.IsNotFound(err):
		return "Run 'roster list' to see the current students."
	case rostererrors.IsValidation(err):
		return "Check the field values and try again."
	default:
		return "Retry the command with --verbose to see request details."
	}
}
