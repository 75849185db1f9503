package align

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned for a query without sequence.
var ErrEmptyQuery = errors.New("empty query sequence")

// Error is a per-query mapping failure.
type Error struct {
	Query string
	cause error
}

func (e *Error) Error() string { return fmt.Sprintf("map %s: %v", e.Query, e.cause) }

func (e *Error) Unwrap() error { return e.cause }
