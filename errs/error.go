package errs

import (
	"errors"
	"fmt"
)

// Application error codes. They map loosely onto HTTP status codes but exist
// so the crud layer never has to know about HTTP.
const (
	ECONFLICT     = "conflict"
	EINTERNAL     = "internal"
	EINVALID      = "invalid"
	ENOTFOUND     = "not_found"
	ERATELIMIT    = "rate_limited"
	EUNAUTHORIZED = "unauthorized"
)

// Error is an application error. The Message is safe to show to an end user;
// anything EINTERNAL gets a generic message instead and the real error is
// logged server-side.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("chirp error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an error's application code. Non-application errors
// report EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an error's user-facing message. Non-application errors
// report a generic message.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf constructs an Error with the given code and formatted message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
