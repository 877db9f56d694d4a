package doconv

import (
	"fmt"
	"slices"
	"strings"
)

// Path is an ordered sequence of formats joined by graph edges.
type Path []Format

// String renders the path as "a -> b -> c".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, f := range p {
		parts[i] = string(f)
	}
	return strings.Join(parts, " -> ")
}

// Steps returns the number of conversions the path implies.
func (p Path) Steps() int {
	if len(p) < 2 {
		return 0
	}
	return len(p) - 1
}

// SelectPath returns the shortest path from one format to another, counting
// edges. Among paths of equal length, the one reached first by a
// breadth-first search in edge insertion order wins.
func SelectPath(g *Graph, from, to Format) (Path, error) {
	if !g.HasNode(from) {
		return nil, fmt.Errorf("%w: input format %q", ErrUnsupportedFormat, from)
	}
	if !g.HasNode(to) {
		return nil, fmt.Errorf("%w: output format %q", ErrUnsupportedFormat, to)
	}
	if from == to {
		return nil, fmt.Errorf("%w: %q", ErrIdenticalFormats, from)
	}

	parent := map[Format]Format{}
	visited := map[Format]bool{from: true}
	queue := []Format{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, next := range g.Neighbors(cur) {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = cur
			if next == to {
				return buildPath(parent, from, to), nil
			}
			queue = append(queue, next)
		}
	}

	return nil, fmt.Errorf("%w: no combination of plugins converts %q to %q", ErrNoPathFound, from, to)
}

// buildPath walks parent links back from to.
func buildPath(parent map[Format]Format, from, to Format) Path {
	path := Path{to}
	for cur := to; cur != from; {
		cur = parent[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path
}
