package render

import (
	"fmt"
	"strings"

	"github.com/tchevalier/mpm/internal/schedule"
)

// DOT exports the network in graphviz format for callers who prefer
// automatic layout over the fixed grid.
func DOT(res *schedule.Result) []byte {
	d := Layout(res)
	var b strings.Builder

	b.WriteString("digraph mpm {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\"];\n")
	b.WriteString("  edge [fontname=\"Helvetica\"];\n")

	for _, n := range d.Nodes {
		stroke, fill := normalStroke, normalFill
		if n.Critical {
			stroke, fill = criticalStroke, criticalFill
		}
		if n.Anchor {
			stroke, fill = anchorStroke, anchorFill
		}
		label := n.Label
		if !n.Anchor {
			label = fmt.Sprintf("%s\\ndurée %s\\nDPT %s | DPL %s\\nmarge %s",
				escapeDot(n.Label), formatNum(n.Duration), formatNum(n.DPT), formatNum(n.DPL), formatNum(n.Margin))
		}
		fmt.Fprintf(&b, "  %s [label=\"%s\", color=\"%s\", fillcolor=\"%s\"];\n",
			quoteDot(n.Name), label, stroke, fill)
	}

	for _, e := range d.Edges {
		attrs := fmt.Sprintf("color=\"%s\"", edgeColor)
		if e.Critical {
			attrs = fmt.Sprintf("color=\"%s\", penwidth=2", criticalStroke)
		}
		fmt.Fprintf(&b, "  %s -> %s [%s];\n", quoteDot(e.From), quoteDot(e.To), attrs)
	}

	b.WriteString("}\n")
	return []byte(b.String())
}

func quoteDot(name string) string {
	return `"` + escapeDot(name) + `"`
}

func escapeDot(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return r.Replace(s)
}
