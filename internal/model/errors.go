package model

import (
	"errors"
	"fmt"
)

// ErrInvalidOperation is returned for misuse of the override store.
var ErrInvalidOperation = errors.New("invalid operation")

// ResolveTypeError reports a fixture item that could not be interpreted or built.
type ResolveTypeError struct {
	ID     FixtureItemID
	Path   string
	Reason string
	Err    error
}

// NewResolveTypeError creates a ResolveTypeError.
func NewResolveTypeError(id FixtureItemID, path, reason string, err error) *ResolveTypeError {
	return &ResolveTypeError{ID: id, Path: path, Reason: reason, Err: err}
}

func (e *ResolveTypeError) Error() string {
	msg := fmt.Sprintf("cannot resolve %s at %q: %s", e.ID, e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap returns the underlying cause.
func (e *ResolveTypeError) Unwrap() error {
	return e.Err
}

// InvalidConfigurationError reports a configuration that does not fit the type it targets.
type InvalidConfigurationError struct {
	ID     FixtureItemID
	Path   string
	Member string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("invalid configuration for %s at %q: %s", e.ID, e.Path, e.Reason)
	}

	return fmt.Sprintf("invalid configuration for %s at %q, member %q: %s", e.ID, e.Path, e.Member, e.Reason)
}

// InvalidTypeDescriptionError reports a type that cannot be described or that
// disagrees with the configuration targeting it.
type InvalidTypeDescriptionError struct {
	Type   TypeFullName
	Path   string
	Reason string
}

func (e *InvalidTypeDescriptionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid type description for %s: %s", e.Type, e.Reason)
	}

	return fmt.Sprintf("invalid type description for %s at %q: %s", e.Type, e.Path, e.Reason)
}
