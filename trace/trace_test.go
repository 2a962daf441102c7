package trace

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/fourplay/board"
	"github.com/domino14/fourplay/heuristics"
	"github.com/domino14/fourplay/search"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func tracedSearch(t *testing.T, s search.Searcher, depth int) (*Graph, search.Result) {
	t.Helper()
	g := NewGraph(s.Name())
	req := search.NewRequest(board.New(), depth)
	req.Observer = g
	return g, s.Search(req)
}

func TestRecorderIDsAreUnique(t *testing.T) {
	is := is.New(t)
	g := NewGraph("t")
	a := g.OnNodeEnter(search.DecisionNode, "")
	b := g.OnNodeEnter(search.ChanceNode, "P=0.60")
	c := g.OnNodeEnter(search.DecisionNode, "MIN")
	g.OnEdge(a, b)
	g.OnEdge(b, c)
	g.OnNodeUpdate(b, "0.60\n1.00")
	g.OnNodeUpdate(99, "ignored")

	is.Equal([]int{a, b, c}, []int{0, 1, 2})
	is.Equal(g.Nodes[b].Label, "0.60\n1.00")
	is.Equal(g.Nodes[b].Kind, "chance")
	is.Equal(g.Children(a), []int{b})
	is.Equal(g.Len(), 3)
}

func TestAlphaBetaTrace(t *testing.T) {
	is := is.New(t)
	s, err := search.NewAlphaBeta(heuristics.CombinedStrategy)
	is.NoErr(err)
	g, res := tracedSearch(t, s, 2)

	is.Equal(g.Len(), res.Nodes)
	is.Equal(len(g.Edges), g.Len()-1)
	is.Equal(len(g.Children(0)), board.NumCols)
	// the root carries the running best value
	is.Equal(g.Nodes[0].Label, strings.TrimSpace(g.Nodes[0].Label))
	is.True(strings.Contains(g.Nodes[0].Label, "."))
}

func TestExpectiminimaxTrace(t *testing.T) {
	is := is.New(t)
	s, err := search.NewExpectiminimax(heuristics.CombinedStrategy)
	is.NoErr(err)
	g, _ := tracedSearch(t, s, 1)

	is.Equal(g.Nodes[0].Label, "MAX")
	cols := g.Children(0)
	is.Equal(len(cols), board.NumCols)
	is.True(strings.HasPrefix(g.Nodes[cols[0]].Label, "col=0\n"))
	// an edge column has a landing branch and a single neighbour
	is.Equal(len(g.Children(cols[0])), 2)
	is.Equal(len(g.Children(cols[3])), 3)
	ch := g.Nodes[g.Children(cols[3])[0]]
	is.Equal(ch.Kind, "chance")
	is.True(strings.HasPrefix(ch.Label, "0.60\n"))
}

func TestWriteDOT(t *testing.T) {
	is := is.New(t)
	s, _ := search.NewMinimax(heuristics.CombinedStrategy)
	g, _ := tracedSearch(t, s, 1)

	var buf bytes.Buffer
	is.NoErr(g.WriteDOT(&buf))
	out := buf.String()
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "n0->n1")
	assert.Contains(t, out, `label="-34"`)
	is.Equal(strings.Count(out, "->"), board.NumCols)
}

func TestYAMLRoundTrip(t *testing.T) {
	is := is.New(t)
	s, _ := search.NewExpectiminimax(heuristics.CombinedStrategy)
	g, _ := tracedSearch(t, s, 1)

	var buf bytes.Buffer
	is.NoErr(g.WriteYAML(&buf))
	g2, err := ReadYAML(&buf)
	is.NoErr(err)
	is.Equal(g2.Name, search.ExpectiminimaxName)
	is.Equal(g2.Nodes, g.Nodes)
	is.Equal(g2.Edges, g.Edges)
	is.Equal(g2.Children(0), g.Children(0))
}

func TestWriteText(t *testing.T) {
	is := is.New(t)
	s, _ := search.NewAlphaBeta(heuristics.CombinedStrategy)
	g, _ := tracedSearch(t, s, 2)

	var full, short bytes.Buffer
	is.NoErr(g.WriteText(&full, -1))
	is.NoErr(g.WriteText(&short, 0))

	is.Equal(strings.Count(full.String(), "\n"), g.Len())
	is.True(strings.HasPrefix(full.String(), "[0] decision "))
	is.Equal(short.String(), "[0] decision "+g.Nodes[0].Label+"\n  ... 7 more\n")

	var empty bytes.Buffer
	is.NoErr(NewGraph("x").WriteText(&empty, -1))
	is.Equal(empty.Len(), 0)
}

func TestReadYAMLRejectsMalformedTrees(t *testing.T) {
	is := is.New(t)
	nodes := "nodes:\n  - {id: 0, label: a, kind: decision}\n  - {id: 1, label: b, kind: decision}\n"
	cases := []string{
		nodes + "edges:\n  - {from: 0, to: 5}\n",
		nodes + "edges:\n  - {from: 1, to: 0}\n",
		nodes + "edges:\n  - {from: 0, to: 0}\n",
		nodes + "edges:\n  - {from: 0, to: 1}\n  - {from: 0, to: 1}\n",
		"nodes:\n  - {id: 3, label: a, kind: decision}\n",
	}
	for _, c := range cases {
		_, err := ReadYAML(strings.NewReader(c))
		is.True(errors.Is(err, ErrBadTrace))
	}

	g, err := ReadYAML(strings.NewReader(nodes + "edges:\n  - {from: 0, to: 1}\n"))
	is.NoErr(err)
	var buf bytes.Buffer
	is.NoErr(g.WriteText(&buf, -1))
	is.Equal(buf.String(), "[0] decision a\n  [1] decision b\n")
}
