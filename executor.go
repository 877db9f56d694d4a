package doconv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-doconv/internal/fileutil"
)

// defaultStem names outputs when the input has no usable base name.
const defaultStem = "output"

// Executor runs plans, threading intermediate files between steps.
type Executor struct {
	registry *Registry
	opts     options
	tempName func(dir, stem string, to Format) (string, error)
	remove   func(path string) error
}

// NewExecutor creates an Executor that instantiates plugins from registry.
func NewExecutor(registry *Registry, opts ...Option) *Executor {
	return &Executor{
		registry: registry,
		opts:     newOptions(opts),
		tempName: func(dir, stem string, to Format) (string, error) {
			return fileutil.RandomName(dir, stem, string(to))
		},
		remove: os.Remove,
	}
}

// run tracks the artifacts of a single Execute call.
type run struct {
	input    string
	produced []string
}

// record adds an artifact unless it is the original input or already known.
func (r *run) record(path string) {
	if fileutil.SamePath(path, r.input) {
		return
	}
	for _, p := range r.produced {
		if p == path {
			return
		}
	}
	r.produced = append(r.produced, path)
}

// last returns the newest artifact, or "" if none.
func (r *run) last() string {
	if len(r.produced) == 0 {
		return ""
	}
	return r.produced[len(r.produced)-1]
}

// Execute runs plan on input and moves the final artifact to output.
// An empty output means <stem>.<format> in the work directory.
//
// Steps run one at a time; each blocks until its plugin returns.
// A failing step aborts the run with an error wrapping ErrConverterFailure.
func (e *Executor) Execute(ctx context.Context, plan Plan, input, output string) (res *Result, err error) {
	if len(plan) == 0 {
		return nil, fmt.Errorf("%w: empty plan", ErrMissingEdge)
	}

	stem := fileutil.Stem(input)
	if stem == "" {
		stem = defaultStem
	}
	if output == "" {
		output, err = e.defaultOutput(stem, plan[len(plan)-1].To)
		if err != nil {
			return nil, err
		}
	}
	if fileutil.SamePath(output, input) {
		return nil, fmt.Errorf("%w: %s", ErrOutputIsInput, output)
	}

	r := &run{input: input}
	succeeded := false
	defer func() {
		if !succeeded && !e.opts.keepOnFailure {
			e.discard(r.produced)
		}
	}()

	current := input
	for i, step := range plan {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		produced, hint, err := e.runStep(ctx, i, step, current, stem)
		if err != nil {
			// A failing plugin may leave a partial file behind.
			if !e.opts.keepOnFailure && hint != "" && fileutil.FileExists(hint) {
				r.record(hint)
			}
			return nil, err
		}
		r.record(produced)
		current = produced
	}

	final := r.last()
	if final == "" {
		return nil, fmt.Errorf("%w: plan produced no output", ErrConverterFailure)
	}

	res = &Result{Plan: plan}
	for _, artifact := range r.produced[:len(r.produced)-1] {
		if err := e.remove(artifact); err != nil && !errors.Is(err, os.ErrNotExist) {
			cleanupErr := fmt.Errorf("%w: %s: %v", ErrCleanupFailure, artifact, err)
			e.opts.logger.Warn("cleanup failed", "file", artifact, "error", err)
			res.CleanupErrors = append(res.CleanupErrors, cleanupErr)
			continue
		}
		e.opts.logger.Debug("removed intermediate file", "file", artifact)
		res.Removed = append(res.Removed, artifact)
	}
	// Intermediates are handled; only the terminal artifact is left to protect.
	r.produced = []string{final}

	if !fileutil.SamePath(final, output) {
		if err := fileutil.MoveFile(final, output); err != nil {
			succeeded = true // keep the terminal artifact for the caller
			return nil, fmt.Errorf("%w: %s (result left at %s): %w", ErrOutputWrite, output, final, err)
		}
	}

	succeeded = true
	res.Output = output
	e.opts.logger.Debug("output written", "file", output)
	return res, nil
}

// runStep instantiates the step's plugin and converts current.
// It returns the produced path and the hint it passed to the plugin.
func (e *Executor) runStep(ctx context.Context, i int, step Step, current, stem string) (string, string, error) {
	fail := func(err error) error {
		return fmt.Errorf("%w: step %d %s: %w", ErrConverterFailure, i+1, step, err)
	}

	plugin, err := e.registry.Instantiate(step.Plugin)
	if err != nil {
		return "", "", fail(err)
	}

	dir := e.opts.tempDir
	if dir == "" {
		dir = filepath.Dir(current)
	}
	hint, err := e.tempName(dir, stem, step.To)
	if err != nil {
		return "", "", fail(err)
	}

	e.opts.logger.Debug("running step",
		"step", i+1,
		"plugin", step.Plugin,
		"from", step.From,
		"to", step.To,
		"input", current,
		"output", hint,
	)

	produced, err := convertRecovered(ctx, plugin, Request{
		InputPath:  current,
		From:       step.From,
		To:         step.To,
		OutputHint: hint,
	})
	if err != nil {
		return "", hint, fail(err)
	}
	if produced == "" {
		return "", hint, fail(errors.New("plugin returned no output path"))
	}
	if !fileutil.FileExists(produced) {
		return "", hint, fail(fmt.Errorf("output file %s was not created", produced))
	}
	return produced, hint, nil
}

// convertRecovered runs plugin.Convert, turning a panic into an error.
func convertRecovered(ctx context.Context, plugin Plugin, req Request) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("plugin %s panicked: %v", plugin.Name(), r)
		}
	}()
	return plugin.Convert(ctx, req)
}

// defaultOutput returns <workDir>/<stem>.<to>.
func (e *Executor) defaultOutput(stem string, to Format) (string, error) {
	if err := fileutil.ValidateExtension(string(to)); err != nil {
		return "", fmt.Errorf("%w: output format %q: %v", ErrUnsupportedFormat, to, err)
	}
	dir := e.opts.workDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		dir = wd
	}
	return filepath.Join(dir, stem+"."+string(to)), nil
}

// discard removes artifacts after a failed run.
func (e *Executor) discard(paths []string) {
	for _, p := range paths {
		if err := e.remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			e.opts.logger.Warn("cleanup failed", "file", p, "error", err)
			continue
		}
		e.opts.logger.Debug("removed artifact of failed run", "file", p)
	}
}
