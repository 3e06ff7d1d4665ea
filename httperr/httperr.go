// Package httperr provides errors that carry an HTTP status code and a
// message that is safe to show to the caller.
package httperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an error with an HTTP status code attached. The formatted message
// is for logs; the user message is what gets written in the response.
type Error struct {
	code    int
	msg     string
	userMsg string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.code, e.msg, e.err)
	}
	return fmt.Sprintf("[%d] %s", e.code, e.msg)
}

func (e *Error) Unwrap() error {
	return e.err
}

// WithMessage sets the message shown to the caller.
func (e *Error) WithMessage(msg string) *Error {
	e.userMsg = msg
	return e
}

// WithError attaches an underlying cause.
func (e *Error) WithError(err error) *Error {
	e.err = err
	return e
}

func newErr(code int, format string, args ...interface{}) *Error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...interface{}) *Error {
	return newErr(http.StatusBadRequest, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return newErr(http.StatusUnauthorized, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newErr(http.StatusNotFound, format, args...)
}

func Internal(format string, args ...interface{}) *Error {
	return newErr(http.StatusInternalServerError, format, args...)
}

// Extract returns the status code and user-facing message for err. Errors
// that aren't an *Error are reported as a generic internal error.
func Extract(err error) (int, string) {
	var herr *Error
	if !errors.As(err, &herr) {
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
	if herr.userMsg == "" {
		return herr.code, http.StatusText(herr.code)
	}
	return herr.code, herr.userMsg
}
