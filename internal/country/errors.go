package country

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("country not found")

// ErrMissingParameter is matched by every *MissingParameterError.
var ErrMissingParameter = errors.New("missing parameter")

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// MissingParameterError names a required query parameter that was absent or
// empty.
type MissingParameterError struct {
	Param string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("%q parameter is required", e.Param)
}

func (e *MissingParameterError) Is(target error) bool { return target == ErrMissingParameter }

// ValidationError reports a write that breaks a required-field or
// uniqueness constraint.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// notFound wraps ErrNotFound with the lookup key.
func notFound(key string, v any) error {
	return fmt.Errorf("%w: %s=%v", ErrNotFound, key, v)
}
