package render

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tchevalier/mpm/internal/schedule"
)

func diamondResult(t *testing.T) *schedule.Result {
	t.Helper()
	res, err := schedule.Compute([]schedule.Task{
		{Name: "A", Duration: 3},
		{Name: "B", Duration: 2, Predecessors: []string{"A"}},
		{Name: "C", Duration: 4, Predecessors: []string{"A"}},
		{Name: "D", Duration: 1, Predecessors: []string{"B", "C"}},
	})
	require.NoError(t, err)
	return res
}

func TestLayout_Diamond(t *testing.T) {
	d := Layout(diamondResult(t))

	// Début, A, B, C, D, Fin — columns by earliest start.
	require.Len(t, d.Nodes, 6)
	assert.Equal(t, StartLabel, d.Nodes[0].Name)
	assert.Equal(t, EndLabel, d.Nodes[5].Name)

	a, b, c, dd := d.node("A"), d.node("B"), d.node("C"), d.node("D")
	assert.Less(t, d.Nodes[0].X, a.X)
	assert.Less(t, a.X, b.X)
	assert.Equal(t, b.X, c.X, "B and C share an earliest-start column")
	assert.Less(t, c.X, dd.X)
	assert.Less(t, dd.X, d.Nodes[5].X)

	assert.True(t, a.Critical)
	assert.False(t, b.Critical)
	assert.True(t, c.Critical)
}

func TestLayout_Edges(t *testing.T) {
	d := Layout(diamondResult(t))

	require.Len(t, d.Edges, 6)
	assert.Contains(t, d.Edges, Edge{From: StartLabel, To: "A", Critical: true})
	assert.Contains(t, d.Edges, Edge{From: "A", To: "B", Critical: false})
	assert.Contains(t, d.Edges, Edge{From: "C", To: "D", Critical: true})
	assert.Contains(t, d.Edges, Edge{From: "D", To: EndLabel, Critical: true})
}

func TestDOT_Golden(t *testing.T) {
	out := DOT(diamondResult(t))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "diamond_dot", out)
}

func TestSVG_Deterministic(t *testing.T) {
	res := diamondResult(t)
	assert.Equal(t, SVG(res), SVG(res))
}

func TestSVG_Content(t *testing.T) {
	out := string(SVG(diamondResult(t)))

	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, StartLabel)
	assert.Contains(t, out, EndLabel)
	assert.Contains(t, out, criticalStroke, "critical path must be highlighted")
	assert.Contains(t, out, "marge 2", "B carries two units of margin")
	assert.Contains(t, out, "DPT 7 | DPL 7")
}

func TestSVG_EscapesNames(t *testing.T) {
	res, err := schedule.Compute([]schedule.Task{{Name: "a<b>&c", Duration: 1}})
	require.NoError(t, err)

	out := string(SVG(res))
	assert.Contains(t, out, "a&lt;b&gt;&amp;c")
	assert.NotContains(t, out, ">a<b>&c<")
}

func TestDOT_QuotesNames(t *testing.T) {
	res, err := schedule.Compute([]schedule.Task{{Name: `say "go"`, Duration: 1}})
	require.NoError(t, err)

	out := string(DOT(res))
	assert.Contains(t, out, `"say \"go\""`)
}
