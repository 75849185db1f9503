package cli

import (
	"flag"

	"readmap/internal/clibase"
)

// NewFlagSet returns a ContinueOnError FlagSet with readmap's help text.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.Usage(fs, name)
	return fs
}
