package response

import (
	"errors"
	"net/http"
)

// Error is an error with the HTTP status it maps to. Slug, when set, is the
// machine readable code sent to the frontend next to the message.
type Error struct {
	Code int
	Slug string
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Slug == t.Slug && e.Err.Error() == t.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status falls back to 500 for a zero code.
func (e *Error) Status() int {
	if e.Code == 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

func NewError(code int, err string) error {
	return &Error{Code: code, Err: errors.New(err)}
}

func NewCodedError(code int, slug, err string) error {
	return &Error{Code: code, Slug: slug, Err: errors.New(err)}
}
