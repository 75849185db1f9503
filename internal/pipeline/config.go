package pipeline

import (
	"time"

	"readmap/internal/logging"
)

// DefaultQueueCapacity is used by the CLI when no capacity is given.
const DefaultQueueCapacity = 1024

// Config is fixed for the lifetime of a Pipeline.
type Config struct {
	Threads        int // worker goroutines, each locked to its own OS thread
	WorkCapacity   int
	ResultCapacity int

	// MaxSleep caps one backoff sleep; zero uses queue.DefaultMaxSleep.
	MaxSleep time.Duration

	Logger *logging.Logger
}

// Validate reports the first field that would make the pipeline unable to run.
func (c Config) Validate() error {
	switch {
	case c.Threads < 1:
		return &ConfigError{Field: "threads", Value: c.Threads}
	case c.WorkCapacity < 1:
		return &ConfigError{Field: "work queue capacity", Value: c.WorkCapacity}
	case c.ResultCapacity < 1:
		return &ConfigError{Field: "result queue capacity", Value: c.ResultCapacity}
	}
	return nil
}

func (c Config) logger() *logging.Logger {
	if c.Logger == nil {
		return logging.Noop()
	}
	return c.Logger
}
