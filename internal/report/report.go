// Package report assembles the downloadable PDF for a computed schedule:
// project information, the per-task summary table and the network diagram.
package report

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/tchevalier/mpm/internal/render"
	"github.com/tchevalier/mpm/internal/schedule"
)

// Palette, shared with the diagram: dark blue headings, red critical rows.
var (
	headingBlue  = [3]int{30, 58, 138}
	lightBlue    = [3]int{224, 231, 255}
	criticalRed  = [3]int{220, 38, 38}
	criticalTint = [3]int{254, 226, 226}
	borderGrey   = [3]int{156, 163, 175}
)

// Generate builds the full report. The title is the plan name; an empty
// title falls back to a generic heading. now stamps the cover so output
// stays deterministic under test.
func Generate(title string, res *schedule.Result, now time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 15)
	// Pin the metadata clock so identical input yields identical bytes.
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)

	writeSummaryPage(pdf, tr, title, res, now)
	writeDiagramPage(pdf, tr, res)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummaryPage(pdf *fpdf.Fpdf, tr func(string) string, title string, res *schedule.Result, now time.Time) {
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(headingBlue[0], headingBlue[1], headingBlue[2])
	pdf.CellFormat(0, 12, tr("Réseau MPM - Rapport de Projet"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(55, 65, 81)
	sub := now.Format("02/01/2006 15:04")
	if title != "" {
		sub = tr(title) + " - " + sub
	}
	pdf.CellFormat(0, 8, sub, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	heading(pdf, tr, "Informations du Projet")

	infoRow(pdf, tr, "Durée totale du projet:", fmt.Sprintf("%.2f unités de temps", res.ProjectDuration))
	infoRow(pdf, tr, "Nombre de tâches:", fmt.Sprintf("%d", len(res.Tasks)))
	infoRow(pdf, tr, "Nombre de tâches critiques:", fmt.Sprintf("%d", len(res.CriticalPath)))
	path := "Aucun"
	if len(res.CriticalPath) > 0 {
		path = strings.Join(res.CriticalPath, " -> ")
	}
	infoRow(pdf, tr, "Chemin critique:", tr(path))
	pdf.Ln(8)

	heading(pdf, tr, "Tableau Récapitulatif des Tâches")
	taskTable(pdf, tr, res)
}

func heading(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(30, 64, 175)
	pdf.CellFormat(0, 10, tr(text), "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func infoRow(pdf *fpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.SetDrawColor(borderGrey[0], borderGrey[1], borderGrey[2])
	pdf.SetFillColor(lightBlue[0], lightBlue[1], lightBlue[2])
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 9, tr(label), "1", 0, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 9, value, "1", 1, "L", false, 0, "")
}

func taskTable(pdf *fpdf.Fpdf, tr func(string) string, res *schedule.Result) {
	widths := []float64{50, 28, 28, 28, 28, 28}
	headers := []string{"Tâche", "Durée", "DPT", "DPL", "Marge", "Critique"}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(headingBlue[0], headingBlue[1], headingBlue[2])
	pdf.SetTextColor(245, 245, 245)
	pdf.SetDrawColor(borderGrey[0], borderGrey[1], borderGrey[2])
	for i, h := range headers {
		last := i == len(headers)-1
		ln := 0
		if last {
			ln = 1
		}
		pdf.CellFormat(widths[i], 10, tr(h), "1", ln, "C", true, 0, "")
	}

	// Rows sorted by earliest start, ties by name, as in the summary table
	// of the original report.
	tasks := append([]schedule.Task(nil), res.Tasks...)
	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i].Name, tasks[j].Name
		if res.DPT[a] != res.DPT[b] {
			return res.DPT[a] < res.DPT[b]
		}
		return a < b
	})

	pdf.SetFont("Helvetica", "", 9)
	for _, t := range tasks {
		critical := res.IsCritical(t.Name)
		if critical {
			pdf.SetFillColor(criticalTint[0], criticalTint[1], criticalTint[2])
			pdf.SetTextColor(criticalRed[0], criticalRed[1], criticalRed[2])
		} else {
			pdf.SetFillColor(255, 255, 255)
			pdf.SetTextColor(0, 0, 0)
		}
		flag := "Non"
		if critical {
			flag = "Oui"
		}
		cells := []string{
			tr(t.Name),
			fmt.Sprintf("%.2f", t.Duration),
			fmt.Sprintf("%.2f", res.DPT[t.Name]),
			fmt.Sprintf("%.2f", res.DPL[t.Name]),
			fmt.Sprintf("%.2f", res.Margins[t.Name]),
			flag,
		}
		for i, c := range cells {
			ln := 0
			if i == len(cells)-1 {
				ln = 1
			}
			pdf.CellFormat(widths[i], 8, c, "1", ln, "C", true, 0, "")
		}
	}
}

// writeDiagramPage draws the network on a landscape page, scaling the grid
// layout down to the printable area.
func writeDiagramPage(pdf *fpdf.Fpdf, tr func(string) string, res *schedule.Result) {
	pdf.AddPageFormat("L", fpdf.SizeType{Wd: 210, Ht: 297})

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(headingBlue[0], headingBlue[1], headingBlue[2])
	pdf.CellFormat(0, 10, tr("Réseau MPM"), "", 1, "C", false, 0, "")

	d := render.Layout(res)
	const margin, top = 12.0, 24.0
	availW := 297 - 2*margin
	availH := 210 - top - margin
	scale := math.Min(availW/float64(d.Width), availH/float64(d.Height))

	toX := func(v int) float64 { return margin + float64(v)*scale }
	toY := func(v int) float64 { return top + float64(v)*scale }

	boxW := render.BoxWidth * scale
	boxH := render.BoxHeight * scale

	pdf.SetLineWidth(0.3)
	for _, e := range d.Edges {
		from, to := diagramNode(d, e.From), diagramNode(d, e.To)
		x1 := toX(from.X) + boxW
		y1 := toY(from.Y) + boxH/2
		x2 := toX(to.X)
		y2 := toY(to.Y) + boxH/2
		if e.Critical {
			pdf.SetDrawColor(criticalRed[0], criticalRed[1], criticalRed[2])
			pdf.SetLineWidth(0.6)
		} else {
			pdf.SetDrawColor(borderGrey[0], borderGrey[1], borderGrey[2])
			pdf.SetLineWidth(0.3)
		}
		pdf.Line(x1, y1, x2, y2)
		arrowHead(pdf, x1, y1, x2, y2)
	}

	for _, n := range d.Nodes {
		if n.Critical {
			pdf.SetDrawColor(criticalRed[0], criticalRed[1], criticalRed[2])
			pdf.SetFillColor(criticalTint[0], criticalTint[1], criticalTint[2])
		} else {
			pdf.SetDrawColor(37, 99, 235)
			pdf.SetFillColor(219, 234, 254)
		}
		if n.Anchor {
			pdf.SetDrawColor(55, 65, 81)
			pdf.SetFillColor(229, 231, 235)
		}
		x, y := toX(n.X), toY(n.Y)
		pdf.SetLineWidth(0.4)
		pdf.RoundedRect(x, y, boxW, boxH, 1.5, "1234", "FD")

		pdf.SetTextColor(17, 24, 39)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetXY(x, y+boxH*0.12)
		pdf.CellFormat(boxW, 4, tr(n.Label), "", 0, "C", false, 0, "")

		pdf.SetFont("Helvetica", "", 7)
		if n.Anchor {
			pdf.SetXY(x, y+boxH*0.5)
			pdf.CellFormat(boxW, 3.5, fmt.Sprintf("t = %.4g", n.DPT), "", 0, "C", false, 0, "")
		} else {
			pdf.SetXY(x, y+boxH*0.38)
			pdf.CellFormat(boxW, 3.5, tr(fmt.Sprintf("durée %.4g", n.Duration)), "", 0, "C", false, 0, "")
			pdf.SetXY(x, y+boxH*0.58)
			pdf.CellFormat(boxW, 3.5, fmt.Sprintf("DPT %.4g | DPL %.4g", n.DPT, n.DPL), "", 0, "C", false, 0, "")
			pdf.SetXY(x, y+boxH*0.78)
			pdf.CellFormat(boxW, 3.5, fmt.Sprintf("marge %.4g", n.Margin), "", 0, "C", false, 0, "")
		}
	}
}

func diagramNode(d *render.Diagram, name string) render.Node {
	for _, n := range d.Nodes {
		if n.Name == name {
			return n
		}
	}
	return render.Node{}
}

// arrowHead fills a small triangle at the edge's target end.
func arrowHead(pdf *fpdf.Fpdf, x1, y1, x2, y2 float64) {
	const size = 1.8
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	ux, uy := dx/length, dy/length
	bx, by := x2-size*ux, y2-size*uy
	px, py := -uy*size*0.5, ux*size*0.5
	pdf.Polygon([]fpdf.PointType{
		{X: x2, Y: y2},
		{X: bx + px, Y: by + py},
		{X: bx - px, Y: by - py},
	}, "F")
}
