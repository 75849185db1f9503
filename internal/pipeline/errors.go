package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig matches every *ConfigError via errors.Is.
	ErrInvalidConfig = errors.New("invalid pipeline config")
	// ErrAlreadyRun is returned by a second call to Run.
	ErrAlreadyRun = errors.New("pipeline already run")
	// ErrClosed is returned by Run after Close.
	ErrClosed = errors.New("pipeline closed")
)

// ConfigError names the offending configuration field.
type ConfigError struct {
	Field string
	Value int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s must be >= 1 (got %d)", ErrInvalidConfig, e.Field, e.Value)
}

// Is makes errors.Is(err, ErrInvalidConfig) true.
func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

// PanicError is the ResultItem.Err of a record whose mapping panicked.
type PanicError struct {
	Query string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("map %s: panic: %v", e.Query, e.Value)
}
