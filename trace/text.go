package trace

import (
	"fmt"
	"io"
	"strings"
)

// WriteText writes the tree rooted at node 0 as indented text, one node per
// line. Nodes deeper than maxDepth are elided; maxDepth < 0 prints
// everything.
func (g *Graph) WriteText(w io.Writer, maxDepth int) error {
	if len(g.Nodes) == 0 {
		return nil
	}
	var sb strings.Builder
	g.writeNode(&sb, 0, 0, maxDepth)
	_, err := io.WriteString(w, sb.String())
	return err
}

func (g *Graph) writeNode(sb *strings.Builder, id, depth, maxDepth int) {
	n := g.Nodes[id]
	label := strings.ReplaceAll(n.Label, "\n", " ")
	if label == "" {
		label = "-"
	}
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(sb, "%s[%d] %s %s\n", indent, n.ID, n.Kind, label)

	kids := g.Children(id)
	if len(kids) == 0 {
		return
	}
	if maxDepth >= 0 && depth >= maxDepth {
		fmt.Fprintf(sb, "%s  ... %d more\n", indent, len(kids))
		return
	}
	for _, k := range kids {
		g.writeNode(sb, k, depth+1, maxDepth)
	}
}
