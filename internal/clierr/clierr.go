// Package clierr defines structured errors carrying machine-readable codes
// for CLI and HTTP output.
package clierr

import "fmt"

// Error codes.
const (
	InvalidInput     = "INVALID_INPUT"
	InvalidConfig    = "INVALID_CONFIG"
	ConfigNotFound   = "CONFIG_NOT_FOUND"
	ConfigExists     = "CONFIG_EXISTS"
	SnapshotNotFound = "SNAPSHOT_NOT_FOUND"
	InvalidSnapshot  = "INVALID_SNAPSHOT"
	DuplicateColumn  = "DUPLICATE_COLUMN"
	InvalidMode      = "INVALID_MODE"
	InternalError    = "INTERNAL_ERROR"
)

// Error is a CLI error with a code, message and optional details.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

// New creates an Error.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// WithDetails attaches structured details and returns the same Error.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode maps the error code to a process exit code: 2 for internal
// errors, 1 for everything the user can fix.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// SilentError exits with Code without printing anything.
type SilentError struct {
	Code int
}

func (e *SilentError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}
