package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/loadwise/loadpack/internal/model"
)

// ExportExcel writes a loading manifest workbook: one Manifest sheet listing
// every placement with its container and coordinates, and a Summary sheet
// with per-container statistics.
func ExportExcel(path string, result model.PackResult) error {
	if len(result.Containers) == 0 {
		return fmt.Errorf("no containers to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	const manifest = "Manifest"
	if err := f.SetSheetName("Sheet1", manifest); err != nil {
		return err
	}

	headers := []string{"Container", "Container Type", "Box", "Length (mm)", "Width (mm)", "Height (mm)",
		"Weight (kg)", "Orientation", "X (mm)", "Y (mm)", "Z (mm)"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(manifest, cell, h); err != nil {
			return err
		}
	}

	row := 2
	for containerIdx, cl := range result.Containers {
		for _, p := range cl.Placements {
			values := []interface{}{
				containerIdx + 1,
				cl.Container.Label,
				p.Box.Label,
				p.Box.Length,
				p.Box.Width,
				p.Box.Height,
				p.Box.Weight,
				p.Orientation,
				p.X,
				p.Y,
				p.Z,
			}
			for i, v := range values {
				cell, err := excelize.CoordinatesToCellName(i+1, row)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(manifest, cell, v); err != nil {
					return err
				}
			}
			row++
		}
	}

	const summary = "Summary"
	if _, err := f.NewSheet(summary); err != nil {
		return err
	}

	summaryHeaders := []string{"Container", "Type", "Boxes", "Weight (kg)", "Used Volume (m³)", "Utilization (%)"}
	for i, h := range summaryHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(summary, cell, h); err != nil {
			return err
		}
	}

	for i, cl := range result.Containers {
		values := []interface{}{
			i + 1,
			cl.Container.Label,
			len(cl.Placements),
			cl.UsedWeight(),
			cl.UsedVolume() / 1e9,
			cl.Utilization(),
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(summary, cell, v); err != nil {
				return err
			}
		}
	}

	// Unplaced boxes get their own sheet only when there are any.
	if len(result.UnplacedBoxes) > 0 {
		const unplaced = "Unplaced"
		if _, err := f.NewSheet(unplaced); err != nil {
			return err
		}
		for i, h := range []string{"Box", "Length (mm)", "Width (mm)", "Height (mm)", "Weight (kg)"} {
			cell, err := excelize.CoordinatesToCellName(i+1, 1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(unplaced, cell, h); err != nil {
				return err
			}
		}
		for i, b := range result.UnplacedBoxes {
			values := []interface{}{b.Label, b.Length, b.Width, b.Height, b.Weight}
			for j, v := range values {
				cell, err := excelize.CoordinatesToCellName(j+1, i+2)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(unplaced, cell, v); err != nil {
					return err
				}
			}
		}
	}

	return f.SaveAs(path)
}
