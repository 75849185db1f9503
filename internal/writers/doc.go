// Package writers turns pipeline results into serialized outputs.
//
// Design:
//   - Every writer is a pipeline.Sink plus Close, which flushes.
//   - Consume runs on the collector goroutine only, so writers hold no locks.
//   - JSONL goes through pkg/api (v1) for a stable wire format.
package writers
