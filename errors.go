package metadesc

import (
	"errors"
	"fmt"
)

// Application error codes. These map errors to the outcome taxonomy and
// are more useful to callers than raw error strings.
const (
	EINVALID       = "invalid"                // validation failed
	ENOTFOUND      = "not_found"              // entity does not exist
	EINTERNAL      = "internal"               // internal error
	EUNAVAILABLE   = "unavailable"            // model endpoint unreachable or timed out
	EEMPTYRESPONSE = "empty_response"         // model returned no usable text
	ENOEXCERPT     = "no_excerpt"             // document yielded no usable prose
	EMISSINGINFO   = "missing_metadata_block" // DocBook document has no <info> block
)

// Error represents an application-specific error. Errors carry a machine
// readable code and a human readable message.
type Error struct {
	// Code is one of the E* constants above.
	Code string

	// Message is a human-readable description of the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("metadesc error: code=%s message=%s", e.Code, e.Message)
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
