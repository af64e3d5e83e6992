// Package apperr defines the error kinds shared by the scorekeeping core.
//
// Every error returned by a core operation wraps exactly one kind, so callers
// can branch with errors.Is(err, apperr.ErrState) without knowing the
// concrete error.
package apperr

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrState      = errors.New("state error")
	ErrNotFound   = errors.New("not found")
	ErrDataFormat = errors.New("data format error")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// New returns an error with the given message that matches kind under errors.Is.
func New(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Kind returns the kind wrapped by err, or nil if err carries none.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrState, ErrNotFound, ErrDataFormat} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
