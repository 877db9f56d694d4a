package doconv

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Registry is an ordered table of plugin factories.
// Registration order breaks ties when several plugins offer the same conversion.
type Registry struct {
	mu        sync.RWMutex
	order     []string
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a plugin factory under name.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPlugin)
	}
	if factory == nil {
		return fmt.Errorf("%w: nil factory for %q", ErrInvalidPlugin, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicatePlugin, name)
	}
	r.factories[name] = factory
	r.order = append(r.order, name)
	return nil
}

// Prioritize moves the named plugins to the front of the registration order,
// keeping the order given. Unknown names are ignored.
func (r *Registry) Prioritize(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	front := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := r.factories[name]; ok && !slices.Contains(front, name) {
			front = append(front, name)
		}
	}
	rest := make([]string, 0, len(r.order))
	for _, name := range r.order {
		if !slices.Contains(front, name) {
			rest = append(rest, name)
		}
	}
	r.order = append(front, rest...)
}

// Names returns plugin names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Len returns the number of registered plugins.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Instantiate creates a fresh instance of the named plugin.
func (r *Registry) Instantiate(name string) (Plugin, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlugin, name)
	}

	p, err := factory()
	if err != nil {
		return nil, fmt.Errorf("instantiating plugin %q: %w", name, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: factory for %q returned nil", ErrInvalidPlugin, name)
	}
	return p, nil
}

// LoadAll instantiates every plugin, checks its dependencies, and returns
// the declared capabilities in registration order.
// The first unmet dependency aborts the load.
func (r *Registry) LoadAll(ctx context.Context) ([]Capability, error) {
	var caps []Capability
	for _, name := range r.Names() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := r.Instantiate(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDependency, err)
		}
		if err := p.CheckDependencies(ctx); err != nil {
			return nil, fmt.Errorf("%w: plugin %q: %w", ErrDependency, name, err)
		}
		for _, conv := range p.SupportedConversions() {
			caps = append(caps, Capability{Plugin: name, From: conv.From, To: conv.To})
		}
	}
	return caps, nil
}

// Capabilities is LoadAll grouped by plugin name.
func (r *Registry) Capabilities(ctx context.Context) (map[string][]Conversion, error) {
	caps, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	byPlugin := make(map[string][]Conversion)
	for _, c := range caps {
		byPlugin[c.Plugin] = append(byPlugin[c.Plugin], Conversion{From: c.From, To: c.To})
	}
	return byPlugin, nil
}
