// Package render draws the MPM network as SVG or graphviz DOT.
//
// It consumes a schedule.Result only; layout is a fixed grid where each
// column is one earliest-start rank, with the Début and Fin anchors
// bracketing the task columns. Output is deterministic for identical
// results so diagrams can be golden-tested and cached.
package render

import (
	"sort"

	"github.com/tchevalier/mpm/internal/schedule"
)

// Display labels for the synthetic anchors, matching the original UI.
const (
	StartLabel = "Début"
	EndLabel   = "Fin"
)

// Geometry of the node grid, in SVG user units.
const (
	BoxWidth   = 150
	BoxHeight  = 92
	columnGap  = 70
	rowGap     = 40
	canvasPad  = 30
	legendRoom = 70
)

// Node is one positioned box on the diagram.
type Node struct {
	Name     string
	Label    string
	X, Y     int
	Duration float64
	DPT      float64
	DPL      float64
	Margin   float64
	Critical bool
	Anchor   bool
}

// Edge is one arrow between two boxes. Critical edges connect two
// critical-path nodes and are drawn highlighted.
type Edge struct {
	From     string
	To       string
	Critical bool
}

// Diagram is a fully positioned network ready for an emitter.
type Diagram struct {
	Nodes  []Node
	Edges  []Edge
	Width  int
	Height int

	index map[string]int
}

// Layout positions every task of the result on a column grid.
func Layout(res *schedule.Result) *Diagram {
	// Columns: one per distinct earliest-start value, in date order.
	starts := make([]float64, 0, len(res.DPT))
	seen := make(map[float64]bool)
	for _, t := range res.Tasks {
		dpt := res.DPT[t.Name]
		if !seen[dpt] {
			seen[dpt] = true
			starts = append(starts, dpt)
		}
	}
	sort.Float64s(starts)

	rows := make(map[int][]string)
	for _, t := range res.Tasks {
		col := sort.SearchFloat64s(starts, res.DPT[t.Name]) + 1
		rows[col] = append(rows[col], t.Name)
	}

	maxRows := 1
	for _, names := range rows {
		sort.Strings(names)
		if len(names) > maxRows {
			maxRows = len(names)
		}
	}

	d := &Diagram{index: make(map[string]int)}
	totalCols := len(starts) + 2
	d.Width = canvasPad*2 + totalCols*BoxWidth + (totalCols-1)*columnGap
	d.Height = canvasPad*2 + maxRows*BoxHeight + (maxRows-1)*rowGap + legendRoom

	centerY := func(row, count int) int {
		span := count*BoxHeight + (count-1)*rowGap
		top := canvasPad + (maxRows*BoxHeight+(maxRows-1)*rowGap-span)/2
		return top + row*(BoxHeight+rowGap)
	}

	add := func(n Node) {
		d.index[n.Name] = len(d.Nodes)
		d.Nodes = append(d.Nodes, n)
	}

	add(Node{
		Name: StartLabel, Label: StartLabel,
		X: canvasPad, Y: centerY(0, 1),
		Critical: true, Anchor: true,
	})

	for col := 1; col <= len(starts); col++ {
		for row, name := range rows[col] {
			add(Node{
				Name:     name,
				Label:    name,
				X:        canvasPad + col*(BoxWidth+columnGap),
				Y:        centerY(row, len(rows[col])),
				Duration: taskDuration(res, name),
				DPT:      res.DPT[name],
				DPL:      res.DPL[name],
				Margin:   res.Margins[name],
				Critical: res.IsCritical(name),
			})
		}
	}

	add(Node{
		Name: EndLabel, Label: EndLabel,
		X:        canvasPad + (totalCols-1)*(BoxWidth+columnGap),
		Y:        centerY(0, 1),
		DPT:      res.ProjectDuration,
		DPL:      res.ProjectDuration,
		Critical: true, Anchor: true,
	})

	d.Edges = edges(res)
	return d
}

// edges rebuilds the network arrows from the echoed task list: anchors to
// boundary tasks plus one arrow per declared predecessor.
func edges(res *schedule.Result) []Edge {
	referenced := make(map[string]bool)
	for _, t := range res.Tasks {
		for _, p := range t.Predecessors {
			referenced[p] = true
		}
	}

	var out []Edge
	for _, t := range res.Tasks {
		if len(t.Predecessors) == 0 {
			out = append(out, Edge{From: StartLabel, To: t.Name, Critical: res.IsCritical(t.Name)})
		}
		for _, p := range t.Predecessors {
			out = append(out, Edge{
				From:     p,
				To:       t.Name,
				Critical: res.IsCritical(p) && res.IsCritical(t.Name),
			})
		}
	}
	for _, t := range res.Tasks {
		if !referenced[t.Name] {
			out = append(out, Edge{From: t.Name, To: EndLabel, Critical: res.IsCritical(t.Name)})
		}
	}
	return out
}

func (d *Diagram) node(name string) Node {
	return d.Nodes[d.index[name]]
}

func taskDuration(res *schedule.Result, name string) float64 {
	for _, t := range res.Tasks {
		if t.Name == name {
			return t.Duration
		}
	}
	return 0
}
