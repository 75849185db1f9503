// Package pipeline maps a stream of query records against a shared index on a
// fixed pool of worker goroutines.
//
// A producer feeds a bounded work queue, workers map each item and push a
// ResultItem onto a bounded result queue, and the collector (running on the
// caller's goroutine) forwards results to a Sink. No queue operation blocks:
// every stage retries with a queue.Backoff, and the bounded capacities are the
// only backpressure.
//
// Shutdown: the producer sets the shutdown flag once the source is exhausted.
// A worker exits only when the flag is set AND the work queue is empty; the
// collector finishes only when every worker has exited and one more pop of the
// result queue comes back empty. Run returns after all three.
//
// Results arrive in completion order; ResultItem.ID is the only correlation
// with the input.
package pipeline
