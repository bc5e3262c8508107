// Package clierr carries process exit codes on errors returned by commands.
package clierr

import (
	"errors"
	"fmt"
)

const (
	// CodeFailure is used for runtime failures.
	CodeFailure = 1
	// CodeUsage is used for invalid configuration or flags.
	CodeUsage = 2
)

type ExitCoder interface {
	error
	ExitCode() int
}

// ExitError is an error with an explicit exit code. It unwraps to its cause.
type ExitError struct {
	code  int
	msg   string
	cause error
}

func (e *ExitError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *ExitError) ExitCode() int { return e.code }

func (e *ExitError) Unwrap() error { return e.cause }

// New creates an ExitError with a message.
func New(code int, msg string) error {
	return &ExitError{code: normalize(code), msg: msg}
}

// Wrap creates an ExitError around cause. A nil cause behaves like New.
func Wrap(code int, msg string, cause error) error {
	if cause == nil {
		return New(code, msg)
	}
	return &ExitError{code: normalize(code), msg: msg, cause: cause}
}

// Usage wraps cause as a configuration error.
func Usage(msg string, cause error) error {
	return Wrap(CodeUsage, msg, cause)
}

// ExitCodeOf extracts the exit code from err. Errors without one exit with 1.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return CodeFailure
}

func normalize(code int) int {
	if code <= 0 {
		return CodeFailure
	}
	return code
}
