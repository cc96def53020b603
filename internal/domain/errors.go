package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrUnauthorized   = errors.New("authentication credentials were not provided")
	ErrBadCredentials = errors.New("invalid username or password")
)

// NonFieldErrors keys object-level validation failures.
const NonFieldErrors = "non_field_errors"

// ValidationError maps a field (or NonFieldErrors) to the rules it broke.
type ValidationError struct {
	Fields map[string][]string
}

func NewFieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {msg}}}
}

func NewObjectError(msg string) *ValidationError {
	return NewFieldError(NonFieldErrors, msg)
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Merge folds other into e; a nil or non-validation error is ignored.
func (e *ValidationError) Merge(err error) {
	var other *ValidationError
	if !errors.As(err, &other) {
		return
	}
	for f, msgs := range other.Fields {
		for _, m := range msgs {
			e.Add(f, m)
		}
	}
}

// OrNil returns nil when no rule failed so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// TransitionError reports a booking state change whose precondition did not hold.
type TransitionError struct {
	Reason string
}

func (e *TransitionError) Error() string { return e.Reason }

// ForbiddenError carries a caller-facing reason and matches ErrForbidden.
type ForbiddenError struct {
	Detail string
}

func (e *ForbiddenError) Error() string { return e.Detail }

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }
