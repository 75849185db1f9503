package index

import (
	"errors"
	"fmt"
)

var (
	// ErrBuild matches every *BuildError via errors.Is.
	ErrBuild = errors.New("index build failed")
	// ErrEmptySource is returned when the source has no usable target sequence.
	ErrEmptySource = errors.New("index source has no sequence of at least k bases")
	// ErrInvalidOptions is returned for out-of-range k or w.
	ErrInvalidOptions = errors.New("invalid index options")
	// ErrBadSnapshot is returned when a snapshot header or body cannot be decoded.
	ErrBadSnapshot = errors.New("bad index snapshot")
)

// BuildError reports why an index could not be built or loaded.
//
// The original underlying error can be accessed via errors.Unwrap.
type BuildError struct {
	Source string
	cause  error
}

func (e *BuildError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("build index: %v", e.cause)
	}
	return fmt.Sprintf("build index from %s: %v", e.Source, e.cause)
}

func (e *BuildError) Unwrap() error { return e.cause }

// Is makes errors.Is(err, ErrBuild) true for every BuildError.
func (e *BuildError) Is(target error) bool { return target == ErrBuild }

// NewBuildError wraps cause. A cause that already is a BuildError is kept,
// gaining source if it has none.
func NewBuildError(source string, cause error) error {
	var be *BuildError
	if errors.As(cause, &be) {
		if be.Source != "" || source == "" {
			return cause
		}
		return &BuildError{Source: source, cause: be.cause}
	}
	return &BuildError{Source: source, cause: cause}
}
