package doconv

import (
	"fmt"
	"strings"
)

// Step is one plugin invocation in a plan.
type Step struct {
	Plugin string
	From   Format
	To     Format
}

// String renders the step as "plugin(from -> to)".
func (s Step) String() string {
	return fmt.Sprintf("%s(%s -> %s)", s.Plugin, s.From, s.To)
}

// Plan is the ordered list of steps for a path.
type Plan []Step

// String renders the steps separated by commas.
func (p Plan) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

// BuildPlan resolves each edge of path to the first plugin registered for it.
func BuildPlan(g *Graph, path Path) (Plan, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("%w: path %q has no conversions", ErrMissingEdge, path.String())
	}

	plan := make(Plan, 0, len(path)-1)
	for i := 0; i < len(path)-1; i++ {
		from, to := path[i], path[i+1]
		plugins := g.Plugins(from, to)
		if len(plugins) == 0 {
			return nil, fmt.Errorf("%w: %s -> %s", ErrMissingEdge, from, to)
		}
		plan = append(plan, Step{Plugin: plugins[0], From: from, To: to})
	}
	return plan, nil
}
