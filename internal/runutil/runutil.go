// Package runutil resolves run-time defaults that depend on the host.
package runutil

import "runtime"

// AvailableCPUs returns the number of CPUs this process may run on: the
// scheduler affinity mask where the platform exposes one, else NumCPU.
func AvailableCPUs() int {
	if n := affinityCPUs(); n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// ResolveThreads returns n, or AvailableCPUs when n <= 0.
func ResolveThreads(n int) int {
	if n > 0 {
		return n
	}
	return AvailableCPUs()
}

// IndexThreads returns the index build parallelism: n if set, else the
// mapping thread count.
func IndexThreads(n, mapThreads int) int {
	if n > 0 {
		return n
	}
	return mapThreads
}
