package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-doconv"
	"github.com/alnah/go-doconv/converters"
	"github.com/alnah/go-doconv/internal/config"
)

// Exit codes for the doconv CLI.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// ErrUsage indicates wrong positional arguments.
var ErrUsage = errors.New("invalid arguments")

// runMain parses args, runs the command and returns the exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n\n", err)
		printUsage(env.Stderr)
		return ExitFailure
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "doconv %s\n", Version)
		return ExitSuccess
	}

	logger := newLogger(env.Stderr, flags.verbose)
	if err := run(ctx, flags, positional, env, logger); err != nil {
		printError(env.Stderr, err, flags.verbose)
		if errors.Is(err, ErrUsage) {
			fmt.Fprintln(env.Stderr)
			printUsage(env.Stderr)
		}
		return ExitFailure
	}
	return ExitSuccess
}

// newLogger logs to w at debug level when verbose, warnings only otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// run executes one doconv invocation.
func run(ctx context.Context, flags *cliFlags, args []string, env *Environment, logger *slog.Logger) error {
	cfg := config.DefaultConfig()
	if flags.config != "" {
		loaded, err := config.LoadConfig(flags.config)
		if err != nil {
			err = fmt.Errorf("loading config: %w", err)
			if errors.Is(err, config.ErrConfigNotFound) {
				return withHint(err, configNotFoundHint(flags.config))
			}
			return err
		}
		cfg = loaded
	}

	// CLI wins over the config file
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	reg, err := env.Registry(pluginOptions(cfg, logger))
	if err != nil {
		return err
	}

	if flags.list {
		if err := printPlugins(ctx, env.Stdout, reg); err != nil {
			return withHint(err, conversionHint(ctx, nil, doconv.Job{}, cfg, err))
		}
		return nil
	}

	if len(args) != 3 {
		return fmt.Errorf("%w: expected <file> <input_format> <output_format>, got %d argument(s)", ErrUsage, len(args))
	}

	wd, err := env.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	job := doconv.Job{
		Input: resolvePath(wd, args[0]),
		From:  doconv.ParseFormat(args[1]),
		To:    doconv.ParseFormat(args[2]),
	}
	if flags.output != "" {
		job.Output = resolvePath(wd, flags.output)
	}

	workDir := wd
	if cfg.Output.Dir != "" {
		workDir = resolvePath(wd, cfg.Output.Dir)
	}
	opts := []doconv.Option{
		doconv.WithLogger(logger),
		doconv.WithWorkDir(workDir),
		doconv.WithKeepOnFailure(cfg.Pipeline.KeepOnFailure),
	}
	if cfg.Pipeline.TempDir != "" {
		opts = append(opts, doconv.WithTempDir(resolvePath(wd, cfg.Pipeline.TempDir)))
	}
	conv := doconv.NewConverter(reg, opts...)

	res, err := conv.Convert(ctx, job)
	if err != nil {
		if flags.verbose {
			return withHint(err, conversionHint(ctx, conv, job, cfg, err))
		}
		return err
	}

	for _, cerr := range res.CleanupErrors {
		logger.Warn("intermediate file left on disk", "error", cerr)
	}
	fmt.Fprintf(env.Stdout, "Conversion successful: file %s generated\n", res.Output)
	return nil
}

// mergeFlags applies CLI flags over cfg.
// A plugin disabled on the command line is also dropped from the priority list.
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	for _, name := range flags.disable {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !slices.Contains(cfg.Plugins.Disabled, name) {
			cfg.Plugins.Disabled = append(cfg.Plugins.Disabled, name)
		}
		cfg.Plugins.Priority = slices.DeleteFunc(cfg.Plugins.Priority, func(p string) bool { return p == name })
	}
	if flags.keepOnFailure {
		cfg.Pipeline.KeepOnFailure = true
	}
}

// pluginOptions maps the plugins section of cfg to converters.Options.
func pluginOptions(cfg *config.Config, logger *slog.Logger) converters.Options {
	return converters.Options{
		Disabled:      cfg.Plugins.Disabled,
		Priority:      cfg.Plugins.Priority,
		PandocBin:     cfg.Plugins.Pandoc.Bin,
		ChromeBin:     cfg.Plugins.Chrome.Bin,
		ChromeTimeout: cfg.Plugins.Chrome.TimeoutDuration(),
		NoSandbox:     cfg.Plugins.Chrome.NoSandbox,
		Logger:        logger,
	}
}

// resolvePath makes p absolute relative to wd.
func resolvePath(wd, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(wd, p)
}

// printPlugins writes each loaded plugin followed by its conversions.
func printPlugins(ctx context.Context, w io.Writer, reg *doconv.Registry) error {
	caps, err := reg.Capabilities(ctx)
	if err != nil {
		return err
	}
	for _, name := range reg.Names() {
		fmt.Fprintln(w, name)
		for _, c := range caps[name] {
			fmt.Fprintf(w, "  %s\n", c)
		}
	}
	return nil
}
