package doconv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Converter routes jobs through the plugins of a registry.
// Create with NewConverter and call Convert once per job.
// It is safe for concurrent use.
type Converter struct {
	registry *Registry
	opts     []Option
	cfg      options
}

// NewConverter creates a Converter over registry.
// Panics if registry is nil (programmer error).
func NewConverter(registry *Registry, opts ...Option) *Converter {
	if registry == nil {
		panic("doconv: NewConverter requires a registry")
	}
	return &Converter{
		registry: registry,
		opts:     opts,
		cfg:      newOptions(opts),
	}
}

// Graph loads every plugin and builds a fresh conversion graph.
// Fails with ErrDependency if any plugin's dependencies are unmet.
func (c *Converter) Graph(ctx context.Context) (*Graph, error) {
	caps, err := c.registry.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	g := BuildGraph(caps)

	log := c.cfg.logger
	log.Debug("loaded plugins", "plugins", c.registry.Names())
	log.Debug("supported formats", "formats", g.Nodes())
	for _, e := range g.Edges() {
		log.Debug("supported conversion", "from", e.From, "to", e.To, "plugins", e.Plugins)
	}
	return g, nil
}

// Route returns the path and plan for a conversion without running it.
func (c *Converter) Route(ctx context.Context, from, to Format) (Path, Plan, error) {
	g, err := c.Graph(ctx)
	if err != nil {
		return nil, nil, err
	}
	return route(g, from, to)
}

func route(g *Graph, from, to Format) (Path, Plan, error) {
	path, err := SelectPath(g, from, to)
	if err != nil {
		return nil, nil, err
	}
	plan, err := BuildPlan(g, path)
	if err != nil {
		return nil, nil, err
	}
	return path, plan, nil
}

// Convert runs the full pipeline for job: load plugins, build the graph,
// select the shortest path, plan it, and execute it.
// Recovers from plugin panics to keep them from crashing the caller.
func (c *Converter) Convert(ctx context.Context, job Job) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	input, err := validateJob(job)
	if err != nil {
		return nil, err
	}

	g, err := c.Graph(ctx)
	if err != nil {
		return nil, err
	}

	path, plan, err := route(g, job.From, job.To)
	if err != nil {
		return nil, err
	}
	c.cfg.logger.Debug("chosen conversion path", "path", path.String())
	c.cfg.logger.Debug("plugins per conversion", "plan", plan.String())

	output := job.Output
	if output != "" {
		if output, err = filepath.Abs(output); err != nil {
			return nil, fmt.Errorf("resolving output path: %w", err)
		}
	}

	res, err := NewExecutor(c.registry, c.opts...).Execute(ctx, plan, input, output)
	if err != nil {
		return nil, err
	}
	res.Path = path
	return res, nil
}

// validateJob checks the input file and returns its absolute path.
func validateJob(job Job) (string, error) {
	if job.Input == "" {
		return "", ErrEmptyInput
	}
	input, err := filepath.Abs(job.Input)
	if err != nil {
		return "", fmt.Errorf("resolving input path: %w", err)
	}
	info, err := os.Stat(input)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInputNotFound, input)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrInputNotFound, input)
	}
	return input, nil
}
