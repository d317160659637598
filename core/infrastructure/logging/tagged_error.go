package logging

import (
	"errors"
	"fmt"
)

// TaggedError carries the logger tag the CLI boundary should use when it
// finally logs the error.
type TaggedError struct {
	tag string
	err error
}

func (e *TaggedError) Error() string {
	if e == nil || e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *TaggedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// WithTag wraps err with a logger tag. A nil err stays nil.
func WithTag(tag string, err error) error {
	if err == nil {
		return nil
	}
	return &TaggedError{tag: tag, err: err}
}

// Errorf formats an error and tags it in one step
func Errorf(tag, format string, args ...any) error {
	return &TaggedError{tag: tag, err: fmt.Errorf(format, args...)}
}

// ErrorTag extracts the innermost-set logger tag from an error chain
func ErrorTag(err error) string {
	var tagged *TaggedError
	if errors.As(err, &tagged) && tagged != nil {
		return tagged.tag
	}
	return ""
}
