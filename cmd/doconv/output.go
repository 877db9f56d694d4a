package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/alnah/go-doconv"
	"github.com/alnah/go-doconv/converters"
	"github.com/alnah/go-doconv/internal/config"
	"github.com/alnah/go-doconv/internal/hints"
)

// hintError attaches an actionable hint to err without changing its message.
type hintError struct {
	err  error
	hint string
}

func (e *hintError) Error() string { return e.err.Error() }
func (e *hintError) Unwrap() error { return e.err }

// withHint returns err unchanged when hint is empty.
func withHint(err error, hint string) error {
	if hint == "" {
		return err
	}
	return &hintError{err: err, hint: hint}
}

// printError writes err to w. Verbose output adds the cause chain and
// any hint attached with withHint.
func printError(w io.Writer, err error, verbose bool) {
	fmt.Fprintf(w, "Error: %v\n", err)
	if !verbose {
		return
	}

	seen := map[string]bool{err.Error(): true}
	for _, cause := range causes(err) {
		msg := cause.Error()
		if seen[msg] {
			continue
		}
		seen[msg] = true
		fmt.Fprintf(w, "  caused by: %s\n", msg)
	}

	var he *hintError
	if errors.As(err, &he) {
		fmt.Fprintln(w, he.hint[1:])
	}
}

// causes flattens the wrap tree of err, depth first, excluding err itself.
func causes(err error) []error {
	var out []error
	var walk func(error)
	walk = func(e error) {
		switch u := e.(type) {
		case interface{ Unwrap() error }:
			if next := u.Unwrap(); next != nil {
				out = append(out, next)
				walk(next)
			}
		case interface{ Unwrap() []error }:
			for _, next := range u.Unwrap() {
				if next != nil {
					out = append(out, next)
					walk(next)
				}
			}
		}
	}
	walk(err)
	return out
}

func configNotFoundHint(name string) string {
	return hints.ForConfigNotFound(config.SearchPaths(name))
}

// conversionHint picks a hint for a failed conversion. conv may be nil, in
// which case no graph lookups are made.
func conversionHint(ctx context.Context, conv *doconv.Converter, job doconv.Job, cfg *config.Config, err error) string {
	switch {
	case errors.Is(err, doconv.ErrDependency):
		return hints.ForDependency()
	case errors.Is(err, converters.ErrBrowserConnect):
		return hints.ForBrowserConnect(cfg.Plugins.Chrome.NoSandbox, cfg.Plugins.Chrome.Bin != "")
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, doconv.ErrOutputWrite):
		return hints.ForOutputDirectory()
	case conv == nil:
		return ""
	case errors.Is(err, doconv.ErrUnsupportedFormat):
		g, gerr := conv.Graph(ctx)
		if gerr != nil {
			return ""
		}
		return hints.ForUnsupportedFormat(formatNames(g.Nodes()))
	case errors.Is(err, doconv.ErrNoPathFound):
		g, gerr := conv.Graph(ctx)
		if gerr != nil {
			return ""
		}
		return hints.ForNoPath(job.From.String(), formatNames(reachable(g, job.From)))
	}
	return ""
}

// reachable returns every format a chain of conversions can produce from
// start, sorted.
func reachable(g *doconv.Graph, start doconv.Format) []doconv.Format {
	visited := map[doconv.Format]bool{start: true}
	queue := []doconv.Format{start}
	var out []doconv.Format
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.Neighbors(cur) {
			if visited[next] {
				continue
			}
			visited[next] = true
			out = append(out, next)
			queue = append(queue, next)
		}
	}
	slices.Sort(out)
	return out
}

func formatNames(formats []doconv.Format) []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return names
}
