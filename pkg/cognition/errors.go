package cognition

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig is returned when configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEngineClosed is returned when using an engine after Close.
	ErrEngineClosed = errors.New("engine is closed")

	// ErrOutOfRange is returned by Moment.Validate for out-of-convention
	// affect values. The engine itself never performs this check.
	ErrOutOfRange = errors.New("value outside conventional range")
)

// EngineError wraps errors with operation context.
type EngineError struct {
	Op  string // Operation name
	Err error  // Underlying error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("cognition: %v", e.Err)
	}
	return fmt.Sprintf("cognition: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target.
func (e *EngineError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// wrapError wraps an error with operation context.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &EngineError{Op: op, Err: err}
}
