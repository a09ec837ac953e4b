package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tchevalier/mpm/internal/schedule"
)

// Color scheme, carried over from the original diagram: red critical path,
// blue regular tasks, grey anchors.
const (
	criticalStroke = "#dc2626"
	criticalFill   = "#fee2e2"
	normalStroke   = "#2563eb"
	normalFill     = "#dbeafe"
	anchorStroke   = "#374151"
	anchorFill     = "#e5e7eb"
	edgeColor      = "#9ca3af"
)

// SVG renders the network diagram for a computed schedule.
func SVG(res *schedule.Result) []byte {
	d := Layout(res)
	var b strings.Builder

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="Helvetica, Arial, sans-serif">`+"\n",
		d.Width, d.Height, d.Width, d.Height)
	b.WriteString(`<defs>
<marker id="arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="` + edgeColor + `"/></marker>
<marker id="arrow-critical" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="` + criticalStroke + `"/></marker>
</defs>
`)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#ffffff"/>`+"\n", d.Width, d.Height)

	for _, e := range d.Edges {
		from, to := d.node(e.From), d.node(e.To)
		x1 := from.X + BoxWidth
		y1 := from.Y + BoxHeight/2
		x2 := to.X
		y2 := to.Y + BoxHeight/2
		color, marker, width := edgeColor, "arrow", 1.5
		if e.Critical {
			color, marker, width = criticalStroke, "arrow-critical", 2.5
		}
		fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="%s" marker-end="url(#%s)"/>`+"\n",
			x1, y1, x2, y2, color, formatNum(width), marker)
	}

	for _, n := range d.Nodes {
		writeNode(&b, n)
	}

	writeLegend(&b, d)
	b.WriteString("</svg>\n")
	return []byte(b.String())
}

func writeNode(b *strings.Builder, n Node) {
	stroke, fill := normalStroke, normalFill
	if n.Critical {
		stroke, fill = criticalStroke, criticalFill
	}
	if n.Anchor {
		stroke, fill = anchorStroke, anchorFill
	}

	fmt.Fprintf(b, `<g>`)
	fmt.Fprintf(b, `<rect x="%d" y="%d" width="%d" height="%d" rx="8" fill="%s" stroke="%s" stroke-width="2"/>`,
		n.X, n.Y, BoxWidth, BoxHeight, fill, stroke)

	cx := n.X + BoxWidth/2
	fmt.Fprintf(b, `<text x="%d" y="%d" text-anchor="middle" font-size="14" font-weight="bold" fill="#111827">%s</text>`,
		cx, n.Y+22, escapeText(n.Label))

	if n.Anchor {
		fmt.Fprintf(b, `<text x="%d" y="%d" text-anchor="middle" font-size="11" fill="#374151">t = %s</text>`,
			cx, n.Y+50, formatNum(n.DPT))
	} else {
		fmt.Fprintf(b, `<text x="%d" y="%d" text-anchor="middle" font-size="11" fill="#374151">durée %s</text>`,
			cx, n.Y+42, formatNum(n.Duration))
		fmt.Fprintf(b, `<text x="%d" y="%d" text-anchor="middle" font-size="11" fill="#374151">DPT %s | DPL %s</text>`,
			cx, n.Y+60, formatNum(n.DPT), formatNum(n.DPL))
		fmt.Fprintf(b, `<text x="%d" y="%d" text-anchor="middle" font-size="11" fill="#374151">marge %s</text>`,
			cx, n.Y+78, formatNum(n.Margin))
	}
	b.WriteString("</g>\n")
}

func writeLegend(b *strings.Builder, d *Diagram) {
	y := d.Height - legendRoom + 24
	fmt.Fprintf(b, `<rect x="%d" y="%d" width="18" height="12" fill="%s" stroke="%s"/>`, canvasPad, y, criticalFill, criticalStroke)
	fmt.Fprintf(b, `<text x="%d" y="%d" font-size="12" fill="#111827">Tâche critique</text>`, canvasPad+26, y+11)
	fmt.Fprintf(b, `<rect x="%d" y="%d" width="18" height="12" fill="%s" stroke="%s"/>`, canvasPad+160, y, normalFill, normalStroke)
	fmt.Fprintf(b, `<text x="%d" y="%d" font-size="12" fill="#111827">Tâche non critique</text>`, canvasPad+186, y+11)
	b.WriteString("\n")
}

// formatNum prints a duration or date without trailing zeros.
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
