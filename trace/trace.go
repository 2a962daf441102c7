// Package trace records the shape of a search tree so it can be rendered
// after the fact. A Graph is a search.Observer; attach it to a request and
// export it as Graphviz DOT, YAML or indented text once the search returns.
package trace

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/domino14/fourplay/search"
)

var ErrBadTrace = errors.New("malformed trace")

type Node struct {
	ID    int    `yaml:"id"`
	Label string `yaml:"label"`
	Kind  string `yaml:"kind"`
}

type Edge struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// Graph accumulates nodes and edges in the order the search reports them.
// Ids are allocated from a counter and are unique within a Graph.
type Graph struct {
	Name  string `yaml:"name"`
	Nodes []Node `yaml:"nodes"`
	Edges []Edge `yaml:"edges"`

	children map[int][]int
}

func NewGraph(name string) *Graph {
	return &Graph{Name: name, children: map[int][]int{}}
}

func (g *Graph) OnNodeEnter(kind search.NodeKind, label string) int {
	id := len(g.Nodes)
	g.Nodes = append(g.Nodes, Node{ID: id, Label: label, Kind: kind.String()})
	return id
}

func (g *Graph) OnNodeUpdate(id int, label string) {
	if id < 0 || id >= len(g.Nodes) {
		return
	}
	g.Nodes[id].Label = label
}

func (g *Graph) OnEdge(from, to int) {
	g.Edges = append(g.Edges, Edge{From: from, To: to})
	if g.children == nil {
		g.children = map[int][]int{}
	}
	g.children[from] = append(g.children[from], to)
}

// Len returns the number of recorded nodes.
func (g *Graph) Len() int {
	return len(g.Nodes)
}

// Children returns the ids of the direct children of id in the order their
// edges were reported.
func (g *Graph) Children(id int) []int {
	return g.children[id]
}

// WriteYAML writes the graph as a YAML document.
func (g *Graph) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(g); err != nil {
		return err
	}
	return enc.Close()
}

// ReadYAML loads a graph previously written with WriteYAML. The graph must
// be a tree as a search records it: node ids match their position, and
// every edge goes from a lower id to a higher one with each node having at
// most one parent.
func ReadYAML(r io.Reader) (*Graph, error) {
	g := &Graph{}
	if err := yaml.NewDecoder(r).Decode(g); err != nil {
		return nil, err
	}
	for i, n := range g.Nodes {
		if n.ID != i {
			return nil, fmt.Errorf("%w: node %d has id %d", ErrBadTrace, i, n.ID)
		}
	}
	parent := make(map[int]int, len(g.Edges))
	g.children = map[int][]int{}
	for _, e := range g.Edges {
		if e.From < 0 || e.To >= len(g.Nodes) || e.From >= e.To {
			return nil, fmt.Errorf("%w: edge %d->%d", ErrBadTrace, e.From, e.To)
		}
		if p, ok := parent[e.To]; ok {
			return nil, fmt.Errorf("%w: node %d has parents %d and %d", ErrBadTrace, e.To, p, e.From)
		}
		parent[e.To] = e.From
		g.children[e.From] = append(g.children[e.From], e.To)
	}
	return g, nil
}

var _ search.Observer = (*Graph)(nil)
