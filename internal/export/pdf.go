// Package export provides functionality for exporting load plans to various
// file formats.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/loadwise/loadpack/internal/model"
)

// boxColor represents an RGB color for a placed box.
type boxColor struct {
	R, G, B int
}

var boxColors = []boxColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF document for a load plan. Each container is
// rendered on its own page as a top-down footprint diagram with per-box
// stacking heights, followed by a summary page with overall statistics.
func ExportPDF(path string, result model.PackResult) error {
	if len(result.Containers) == 0 {
		return fmt.Errorf("no containers to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, cl := range result.Containers {
		pdf.AddPage()
		renderContainerPage(pdf, cl, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result)

	return pdf.OutputFileAndClose(path)
}

// renderContainerPage draws a single container load on the current PDF page.
func renderContainerPage(pdf *fpdf.Fpdf, cl model.ContainerLoad, containerNum int) {
	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Container %d: %s (%.0f x %.0f x %.0f mm)",
		containerNum, cl.Container.Label, cl.Container.Length, cl.Container.Width, cl.Container.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Boxes: %d | Used volume: %.2f m³ | Utilization: %.1f%% | Weight: %.1f kg",
		len(cl.Placements), cl.UsedVolume()/1e9, cl.Utilization(), cl.UsedWeight())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Calculate drawing area for the top-down footprint (x along the page,
	// y down the page).
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scaleX := drawWidth / cl.Container.Length
	scaleY := drawHeight / cl.Container.Width
	scale := math.Min(scaleX, scaleY)

	canvasW := cl.Container.Length * scale
	canvasH := cl.Container.Width * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Container floor background
	pdf.SetFillColor(230, 230, 230)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Draw placements bottom layer first so upper boxes overprint the ones
	// they rest on.
	for i, p := range sortByLevel(cl.Placements) {
		col := boxColors[i%len(boxColors)]
		pw := p.PlacedLength() * scale
		ph := p.PlacedWidth() * scale
		px := offsetX + p.X*scale
		py := offsetY + p.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := p.Box.Label
			level := fmt.Sprintf("z=%.0f h=%.0f", p.Z, p.PlacedHeight())

			labelW := pdf.GetStringWidth(label)
			levelW := pdf.GetStringWidth(level)

			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ph > 14 && levelW < pw-2 {
				pdf.SetXY(px+(pw-levelW)/2, py+ph/2)
				pdf.CellFormat(levelW, 4, level, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, cl.Container, scale, offsetX, offsetY, canvasW, canvasH)
	drawBoxLegend(pdf, cl, offsetY+canvasH+5)
}

// sortByLevel returns the placements ordered by ascending Z so the diagram
// paints lower boxes first.
func sortByLevel(placements []model.Placement) []model.Placement {
	out := make([]model.Placement, len(placements))
	copy(out, placements)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Z < out[j-1].Z; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// labelFontSize picks a font size that fits the rectangle.
func labelFontSize(w, h float64) float64 {
	size := 8.0
	if w < 30 || h < 12 {
		size = 6.0
	}
	return size
}

// drawDimensionAnnotations adds length and width labels outside the
// container rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, c model.Container, scale, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	// Length annotation (below the container)
	lengthLabel := fmt.Sprintf("%.0f mm", c.Length)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX+(canvasW-lLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")

	// Width annotation (to the left, rotated)
	widthLabel := fmt.Sprintf("%.0f mm", c.Width)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX-3-wLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawBoxLegend renders a compact legend of loaded boxes at the bottom of
// the container page.
func drawBoxLegend(pdf *fpdf.Fpdf, cl model.ContainerLoad, startY float64) {
	if len(cl.Placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Boxes loaded:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range sortByLevel(cl.Placements) {
		col := boxColors[i%len(boxColors)]
		label := fmt.Sprintf("%s (%.0fx%.0fx%.0f)", p.Box.Label, p.Box.Length, p.Box.Width, p.Box.Height)
		if p.Orientation != 0 {
			label += " R"
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PackResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Load Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Containers Used", fmt.Sprintf("%d", len(result.Containers))},
		{"Boxes Placed", fmt.Sprintf("%d", result.BoxesPlaced())},
		{"Total Weight", fmt.Sprintf("%.1f kg", result.TotalWeight())},
		{"Average Utilization", fmt.Sprintf("%.1f%%", result.TotalUtilization())},
		{"Unplaced Boxes", fmt.Sprintf("%d", len(result.UnplacedBoxes))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, item.value, "", 0, "L", false, 0, "")
		y += 7
	}

	// Per-container breakdown table
	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Containers", "", 0, "L", false, 0, "")
	y += 9

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(marginLeft+5, y)
	pdf.CellFormat(12, 6, "#", "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 6, "Type", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 6, "Boxes", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Weight (kg)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Utilization", "1", 0, "C", false, 0, "")
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, cl := range result.Containers {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(12, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(60, 6, cl.Container.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", len(cl.Placements)), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.1f", cl.UsedWeight()), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.1f%%", cl.Utilization()), "1", 0, "C", false, 0, "")
		y += 6
	}

	if len(result.UnplacedBoxes) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(180, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 6, fmt.Sprintf("Warning: %d boxes could not be placed", len(result.UnplacedBoxes)), "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
}
