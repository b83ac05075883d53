package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"github.com/loadwise/loadpack/internal/model"
)

// containerSpacing is the gap between container wireframes in the drawing, mm.
const containerSpacing = 500.0

// ExportDXF writes the load plan as a 3D DXF wireframe drawing. Each
// container gets its own layer with its shell and every placed box drawn as
// a 12-edge wireframe, laid out side by side along the x axis.
func ExportDXF(path string, result model.PackResult) error {
	if len(result.Containers) == 0 {
		return fmt.Errorf("no containers to export")
	}

	d := dxf.NewDrawing()

	offsetX := 0.0
	for i, cl := range result.Containers {
		layer := fmt.Sprintf("CONTAINER_%d", i+1)
		if _, err := d.AddLayer(layer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("add layer %s: %w", layer, err)
		}

		drawWireframe(d, offsetX, 0, 0, cl.Container.Length, cl.Container.Width, cl.Container.Height)

		for _, p := range cl.Placements {
			drawWireframe(d, offsetX+p.X, p.Y, p.Z, p.PlacedLength(), p.PlacedWidth(), p.PlacedHeight())
		}

		offsetX += cl.Container.Length + containerSpacing
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("save dxf: %w", err)
	}
	return nil
}

// drawWireframe draws the 12 edges of an axis-aligned cuboid with minimum
// corner (x, y, z) and extents (l, w, h).
func drawWireframe(d *drawing.Drawing, x, y, z, l, w, h float64) {
	x2, y2, z2 := x+l, y+w, z+h

	// Bottom face
	d.Line(x, y, z, x2, y, z)
	d.Line(x2, y, z, x2, y2, z)
	d.Line(x2, y2, z, x, y2, z)
	d.Line(x, y2, z, x, y, z)

	// Top face
	d.Line(x, y, z2, x2, y, z2)
	d.Line(x2, y, z2, x2, y2, z2)
	d.Line(x2, y2, z2, x, y2, z2)
	d.Line(x, y2, z2, x, y, z2)

	// Vertical edges
	d.Line(x, y, z, x, y, z2)
	d.Line(x2, y, z, x2, y, z2)
	d.Line(x2, y2, z, x2, y2, z2)
	d.Line(x, y2, z, x, y2, z2)
}
