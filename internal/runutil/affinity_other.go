//go:build !linux

package runutil

func affinityCPUs() int { return 0 }
