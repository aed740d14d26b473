package worktree

import (
	"errors"
	"fmt"
)

// Code identifies one failure kind in the closed taxonomy. The token is
// stable: hosts match on it, so values never change.
type Code string

const (
	CodeNotAGitRepo          Code = "NOT_A_GIT_REPO"
	CodeInvalidPath          Code = "INVALID_PATH"
	CodeWorktreeCreateFailed Code = "WORKTREE_CREATE_FAILED"
	CodeWorktreeRemoveFailed Code = "WORKTREE_REMOVE_FAILED"
	CodeWorktreeNotFound     Code = "WORKTREE_NOT_FOUND"

	// CodeWorktreeInUse is reserved for callers interpreting lock state;
	// the core never raises it.
	CodeWorktreeInUse Code = "WORKTREE_IN_USE"

	CodeGitError Code = "GIT_ERROR"
	CodeIoError  Code = "IO_ERROR"
)

// Error is a core failure carrying one Code and a human-readable message.
// It wraps the underlying cause for errors.Is/As chains.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// newError builds an *Error with a formatted message wrapping cause
// (cause may be nil).
func newError(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

// CodeOf extracts the taxonomy code from err. Failures that did not pass
// through the core report CodeGitError.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeGitError
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
