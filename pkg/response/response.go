package response

import (
	"errors"
)

// Error is a domain error that already knows its HTTP status. The central
// handler maps it straight to a response instead of guessing from the text.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

// Is matches on status code and message so errors.Is works against the
// package-level sentinels each domain declares.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewError(code int, msg string) *Error {
	return &Error{Code: code, Err: errors.New(msg)}
}
