package trace

import (
	"fmt"
	"io"
	"strconv"

	"github.com/awalterschulze/gographviz"
)

func nodeName(id int) string {
	return "n" + strconv.Itoa(id)
}

// DOT builds a Graphviz directed graph. Chance nodes are drawn as ellipses
// and decision nodes as boxes.
func (g *Graph) DOT() (*gographviz.Graph, error) {
	dg := gographviz.NewGraph()
	name := g.Name
	if name == "" {
		name = "search"
	}
	if err := dg.SetName(strconv.Quote(name)); err != nil {
		return nil, err
	}
	if err := dg.SetDir(true); err != nil {
		return nil, err
	}
	for _, n := range g.Nodes {
		shape := "box"
		if n.Kind == "chance" {
			shape = "ellipse"
		}
		attrs := map[string]string{
			"label": strconv.Quote(n.Label),
			"shape": shape,
		}
		if err := dg.AddNode(dg.Name, nodeName(n.ID), attrs); err != nil {
			return nil, fmt.Errorf("adding node %d: %w", n.ID, err)
		}
	}
	for _, e := range g.Edges {
		if err := dg.AddEdge(nodeName(e.From), nodeName(e.To), true, nil); err != nil {
			return nil, fmt.Errorf("adding edge %d->%d: %w", e.From, e.To, err)
		}
	}
	return dg, nil
}

// WriteDOT writes the graph in Graphviz DOT syntax.
func (g *Graph) WriteDOT(w io.Writer) error {
	dg, err := g.DOT()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, dg.String())
	return err
}
