// Package queue holds the bounded multi-producer/multi-consumer ring used to
// move work between pipeline stages, and the Backoff used while waiting on it.
//
// Nothing here blocks: TryPush reports a full ring, TryPop an empty one, and
// the caller decides how long to back off before trying again.
package queue
