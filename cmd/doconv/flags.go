package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// cliFlags holds every doconv flag.
type cliFlags struct {
	output        string
	config        string
	verbose       bool
	list          bool
	disable       []string
	keepOnFailure bool
	version       bool
}

// parseFlags parses args (without the program name) and returns the
// positional arguments. -h/--help yields flag.ErrHelp.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("doconv", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	f := &cliFlags{}

	fs.StringVarP(&f.output, "out-file", "o", "", "output file path")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and error details")
	fs.BoolVar(&f.list, "list", false, "list plugins and their conversions")
	fs.StringSliceVar(&f.disable, "disable", nil, "plugins to skip (repeatable or comma-separated)")
	fs.BoolVar(&f.keepOnFailure, "keep-on-failure", false, "keep intermediate files when a step fails")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
