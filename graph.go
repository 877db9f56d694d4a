package doconv

import (
	"slices"
	"strings"
)

// Edge is a directed conversion and the plugins able to perform it,
// in registration order.
type Edge struct {
	From    Format
	To      Format
	Plugins []string
}

// Graph is a directed graph of formats whose edges are plugin capabilities.
type Graph struct {
	nodes []Format
	index map[Format]bool
	adj   map[Format][]*Edge
}

// BuildGraph merges capabilities into a single graph.
// An edge exists iff at least one capability declares that exact pair.
func BuildGraph(caps []Capability) *Graph {
	g := &Graph{
		index: make(map[Format]bool),
		adj:   make(map[Format][]*Edge),
	}
	for _, c := range caps {
		g.addNode(c.From)
		g.addNode(c.To)
		g.addEdge(c.From, c.To, c.Plugin)
	}
	return g
}

func (g *Graph) addNode(f Format) {
	if g.index[f] {
		return
	}
	g.index[f] = true
	g.nodes = append(g.nodes, f)
}

func (g *Graph) addEdge(from, to Format, plugin string) {
	if e := g.edge(from, to); e != nil {
		if !slices.Contains(e.Plugins, plugin) {
			e.Plugins = append(e.Plugins, plugin)
		}
		return
	}
	g.adj[from] = append(g.adj[from], &Edge{From: from, To: to, Plugins: []string{plugin}})
}

func (g *Graph) edge(from, to Format) *Edge {
	for _, e := range g.adj[from] {
		if e.To == to {
			return e
		}
	}
	return nil
}

// Nodes returns formats in order of first appearance.
func (g *Graph) Nodes() []Format {
	return slices.Clone(g.nodes)
}

// HasNode reports whether any plugin reads or writes f.
func (g *Graph) HasNode(f Format) bool {
	return g.index[f]
}

// HasEdge reports whether some plugin converts from into to.
func (g *Graph) HasEdge(from, to Format) bool {
	return g.edge(from, to) != nil
}

// Plugins returns the candidate plugins for from -> to, or nil.
func (g *Graph) Plugins(from, to Format) []string {
	if e := g.edge(from, to); e != nil {
		return slices.Clone(e.Plugins)
	}
	return nil
}

// Neighbors returns the formats directly reachable from f, in insertion order.
func (g *Graph) Neighbors(f Format) []Format {
	out := make([]Format, 0, len(g.adj[f]))
	for _, e := range g.adj[f] {
		out = append(out, e.To)
	}
	return out
}

// Edges returns every edge, grouped by source node order.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, n := range g.nodes {
		for _, e := range g.adj[n] {
			out = append(out, Edge{From: e.From, To: e.To, Plugins: slices.Clone(e.Plugins)})
		}
	}
	return out
}

// String lists the edges, one per line.
func (g *Graph) String() string {
	var b strings.Builder
	for _, e := range g.Edges() {
		b.WriteString(string(e.From))
		b.WriteString(" -> ")
		b.WriteString(string(e.To))
		b.WriteString(" [")
		b.WriteString(strings.Join(e.Plugins, ", "))
		b.WriteString("]\n")
	}
	return b.String()
}
