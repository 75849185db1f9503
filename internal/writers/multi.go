package writers

import (
	"errors"

	"readmap/internal/pipeline"
)

// Multi fans every result out to several sinks.
type Multi []Sink

// Consume forwards r to every sink, even after one fails.
func (m Multi) Consume(r pipeline.ResultItem) error {
	var errs []error
	for _, s := range m {
		if err := s.Consume(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink.
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
