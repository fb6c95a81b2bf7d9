package errors

import (
	"errors"
	"fmt"
)

// InvalidArgumentError is returned when a required argument is absent or
// malformed. Nothing has been written when it is returned.
type InvalidArgumentError struct {
	Argument string
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s argument must not be nil", e.Argument)
	}
	return fmt.Sprintf("invalid %s argument: %s", e.Argument, e.Reason)
}

func NewInvalidArgumentError(argument string) error {
	return &InvalidArgumentError{Argument: argument}
}

func NewInvalidArgumentErrorf(argument string, format string, args ...any) error {
	return &InvalidArgumentError{Argument: argument, Reason: fmt.Sprintf(format, args...)}
}

func IsInvalidArgumentError(err error) bool {
	var e *InvalidArgumentError
	return errors.As(err, &e)
}

// AmbiguousResultError is returned when a lookup that must match at most one
// order matched several.
type AmbiguousResultError struct {
	Matches int
}

func (e *AmbiguousResultError) Error() string {
	return fmt.Sprintf("too many results: expected at most 1, got %d or more", e.Matches)
}

func NewAmbiguousResultError(matches int) error {
	return &AmbiguousResultError{Matches: matches}
}

func IsAmbiguousResultError(err error) bool {
	var e *AmbiguousResultError
	return errors.As(err, &e)
}

type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func NewOrderNotFoundError(id int64) error {
	return &ResourceNotFoundError{Kind: "order", ID: fmt.Sprintf("%d", id)}
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}
