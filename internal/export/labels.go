package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/loadwise/loadpack/internal/model"
)

// LabelInfo holds the data encoded into each box label's QR code.
type LabelInfo struct {
	BoxLabel       string  `json:"label"`
	Length         float64 `json:"length_mm"`
	Width          float64 `json:"width_mm"`
	Height         float64 `json:"height_mm"`
	Weight         float64 `json:"weight_kg"`
	ContainerIndex int     `json:"container"`
	ContainerLabel string  `json:"container_label"`
	Orientation    int     `json:"orientation"`
	X              float64 `json:"x_mm"`
	Y              float64 `json:"y_mm"`
	Z              float64 `json:"z_mm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// CollectLabelInfos flattens a load plan into one LabelInfo per placed box,
// in container order then placement order.
func CollectLabelInfos(result model.PackResult) []LabelInfo {
	var labels []LabelInfo
	for containerIdx, cl := range result.Containers {
		for _, p := range cl.Placements {
			labels = append(labels, LabelInfo{
				BoxLabel:       p.Box.Label,
				Length:         p.Box.Length,
				Width:          p.Box.Width,
				Height:         p.Box.Height,
				Weight:         p.Box.Weight,
				ContainerIndex: containerIdx + 1,
				ContainerLabel: cl.Container.Label,
				Orientation:    p.Orientation,
				X:              p.X,
				Y:              p.Y,
				Z:              p.Z,
			})
		}
	}
	return labels
}

// ExportLabels generates a PDF of QR-coded labels for all placed boxes.
// Each label contains the box name, dimensions, target container, and a QR
// code encoding the placement metadata as JSON. Labels are laid out on a
// standard label sheet format (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportLabels(path string, result model.PackResult) error {
	if len(result.Containers) == 0 {
		return fmt.Errorf("no containers to generate labels for")
	}

	labels := CollectLabelInfos(result)
	if len(labels) == 0 {
		return fmt.Errorf("no boxes placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, i, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.BoxLabel, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, idx int, info LabelInfo) error {
	// Light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d_%s_%d", idx, info.BoxLabel, info.ContainerIndex)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	// QR code on the right side of the label
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Text area (left side of label)
	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	// Box label (bold, larger)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	boxLabel := info.BoxLabel
	if pdf.GetStringWidth(boxLabel) > textW {
		for len(boxLabel) > 0 && pdf.GetStringWidth(boxLabel+"...") > textW {
			boxLabel = boxLabel[:len(boxLabel)-1]
		}
		boxLabel += "..."
	}
	pdf.CellFormat(textW, 5, boxLabel, "", 0, "L", false, 0, "")

	// Dimensions and weight
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+6)
	dims := fmt.Sprintf("%.0f x %.0f x %.0f mm", info.Length, info.Width, info.Height)
	if info.Weight > 0 {
		dims += fmt.Sprintf("  %.1f kg", info.Weight)
	}
	pdf.CellFormat(textW, 4, dims, "", 0, "L", false, 0, "")

	// Destination container and position
	pdf.SetXY(textX, y+labelPadding+11)
	dest := fmt.Sprintf("Container %d: %s", info.ContainerIndex, info.ContainerLabel)
	pdf.CellFormat(textW, 4, dest, "", 0, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+16)
	pos := fmt.Sprintf("at (%.0f, %.0f, %.0f)", info.X, info.Y, info.Z)
	pdf.CellFormat(textW, 4, pos, "", 0, "L", false, 0, "")

	return nil
}
