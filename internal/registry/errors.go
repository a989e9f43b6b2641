package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRegistered is returned when a key already has a factory and
	// overwrite was not requested.
	ErrAlreadyRegistered = errors.New("module already registered")

	// ErrNotFound is returned when no factory is registered under a key.
	ErrNotFound = errors.New("module not found")

	// ErrInvalidArgument is returned for malformed or wrong-typed arguments.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error reports a failed registry operation on a single key.
type Error struct {
	Op        string
	Name      string
	Namespace string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("registry: %s %q in namespace %q: %v", e.Op, e.Name, e.Namespace, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
