package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid reports every field that failed validation.
type ErrInvalid struct {
	Errors validator.ValidationErrors
}

func (e *ErrInvalid) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		if fe.Param() != "" {
			parts[i] = fmt.Sprintf("%s: %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
		} else {
			parts[i] = fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag())
		}
	}
	return "config: invalid: " + strings.Join(parts, "; ")
}

// Unwrap returns the underlying validation errors.
func (e *ErrInvalid) Unwrap() error {
	return e.Errors
}

// ErrEnv reports a malformed environment override.
type ErrEnv struct {
	Key   string
	Value string
	Err   error
}

func (e *ErrEnv) Error() string {
	return fmt.Sprintf("config: %s=%q: %v", e.Key, e.Value, e.Err)
}

// Unwrap returns the parse error.
func (e *ErrEnv) Unwrap() error {
	return e.Err
}
