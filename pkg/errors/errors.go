package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the different failure classes of a harvest run
type ErrorType string

const (
	ErrorTypeUsage           ErrorType = "usage"
	ErrorTypeDirectoryAccess ErrorType = "directory_access"
	ErrorTypeNetwork         ErrorType = "network"
	ErrorTypeValidation      ErrorType = "validation"
	ErrorTypeFilesystemWrite ErrorType = "filesystem_write"
	ErrorTypeParsing         ErrorType = "parsing"
)

// Error carries the failure class together with the path it concerns
// (a request path or a filesystem path) and the underlying cause.
type Error struct {
	Type    ErrorType
	Message string
	Path    string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error: %s", e.Type, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Code != 0 {
		msg += fmt.Sprintf(" [status %d]", e.Code)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given type without an underlying cause
func New(t ErrorType, path, message string) *Error {
	return &Error{Type: t, Path: path, Message: message}
}

// Wrap creates an error of the given type around cause
func Wrap(t ErrorType, path, message string, cause error) *Error {
	return &Error{Type: t, Path: path, Message: message, Err: cause}
}

// WithCode sets the HTTP status code associated with the error
func (e *Error) WithCode(code int) *Error {
	e.Code = code
	return e
}

// TypeOf returns the type of the first *Error in err's chain, or "" if none
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ""
}

// CodeOf returns the status code of the first *Error in err's chain, or 0
func CodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

// IsType reports whether err's chain contains an *Error of type t
func IsType(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}

// ExitCode maps an error reaching the top level to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
