// Package appshell adapts a context-aware run function to a process main.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// RunFunc is the signature of app.RunContext.
type RunFunc func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// ExitCode normalizes code after a run: a run that was interrupted but
// reported success exits 130.
func ExitCode(ctx context.Context, code int) int {
	if ctx.Err() != nil && code == 0 {
		return 130
	}
	return code
}

// Main runs run with os.Args, cancelling its context on SIGINT or SIGTERM,
// and exits the process with its code.
func Main(run RunFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := ExitCode(ctx, run(ctx, os.Args[1:], os.Stdout, os.Stderr))

	stop()
	os.Exit(code)
}
