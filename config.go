package doconv

import "log/slog"

// Option configures a Converter or an Executor.
type Option func(*options)

// options holds settings shared by Converter and Executor.
type options struct {
	logger        *slog.Logger
	tempDir       string
	workDir       string
	keepOnFailure bool
}

func newOptions(opts []Option) options {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger for routing and execution events.
// Nil is ignored; the default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTempDir places intermediate files in dir instead of beside the input.
func WithTempDir(dir string) Option {
	return func(o *options) {
		o.tempDir = dir
	}
}

// WithWorkDir sets where outputs go when no output path is given.
// Defaults to the current working directory.
func WithWorkDir(dir string) Option {
	return func(o *options) {
		o.workDir = dir
	}
}

// WithKeepOnFailure leaves artifacts of completed steps on disk when a
// later step fails. By default they are removed.
func WithKeepOnFailure(keep bool) Option {
	return func(o *options) {
		o.keepOnFailure = keep
	}
}
