package fluentdoc

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These are mapped to exit codes by the CLI and drive retry and fallback
// decisions in the retrieval engine.
const (
	EBLOCKED        = "blocked"         // access denied by the portal's edge defenses
	EINTERNAL       = "internal"        // unexpected internal error
	EINVALID        = "invalid"         // invalid argument (unknown version, malformed path)
	ENOTESTABLISHED = "not_established" // navigation attempted before session bootstrap
	ENOTFOUND       = "not_found"       // no TOC match or page does not exist
	ETIMEOUT        = "timeout"         // navigation did not settle within the retry budget
	EUNAVAILABLE    = "unavailable"     // missing snapshot, missing mirror coverage, mirror failure
)

// Error represents an application-specific error. Errors can be unwrapped
// by the caller to extract the code and message.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("fluentdoc error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
