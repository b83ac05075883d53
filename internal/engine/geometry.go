package engine

// geomEps treats near-equal floating point boundaries as touching rather
// than overlapping.
const geomEps = 0.001

// cuboid is an axis-aligned box: minimum corner (x, y, z) and extents
// (l, w, h) along the x, y and z axes.
type cuboid struct {
	x, y, z float64
	l, w, h float64
}

func (c cuboid) maxX() float64 { return c.x + c.l }
func (c cuboid) maxY() float64 { return c.y + c.w }
func (c cuboid) maxZ() float64 { return c.z + c.h }

func (c cuboid) volume() float64 { return c.l * c.w * c.h }

// footprint returns the bottom-face area of the cuboid.
func (c cuboid) footprint() float64 { return c.l * c.w }

// cuboidsOverlap returns true if two cuboids overlap with positive measure
// on all three axes. Touching faces do not count as overlap.
func cuboidsOverlap(a, b cuboid) bool {
	return a.x < b.maxX()-geomEps && a.maxX() > b.x+geomEps &&
		a.y < b.maxY()-geomEps && a.maxY() > b.y+geomEps &&
		a.z < b.maxZ()-geomEps && a.maxZ() > b.z+geomEps
}

// cuboidInside returns true if the cuboid lies fully within a container of
// the given interior dimensions anchored at the origin.
func cuboidInside(c cuboid, length, width, height float64) bool {
	return c.x >= -geomEps && c.y >= -geomEps && c.z >= -geomEps &&
		c.maxX() <= length+geomEps &&
		c.maxY() <= width+geomEps &&
		c.maxZ() <= height+geomEps
}

// footprintOverlap returns the overlapping area of the xy projections of
// two cuboids.
func footprintOverlap(a, b cuboid) float64 {
	ox := minf(a.maxX(), b.maxX()) - maxf(a.x, b.x)
	oy := minf(a.maxY(), b.maxY()) - maxf(a.y, b.y)
	if ox <= 0 || oy <= 0 {
		return 0
	}
	return ox * oy
}

// supportArea returns the area of the candidate's bottom face that rests on
// the container floor or on the top face of a placed cuboid. A candidate on
// the floor is fully supported; above the floor only cuboids whose top is
// level with the candidate's bottom contribute.
func supportArea(c cuboid, placed []cuboid) float64 {
	if c.z <= geomEps {
		return c.footprint()
	}
	var area float64
	for _, p := range placed {
		if p.maxZ() > c.z-geomEps && p.maxZ() < c.z+geomEps {
			area += footprintOverlap(c, p)
		}
	}
	return area
}

// supportRatio returns supportArea divided by the candidate's footprint.
func supportRatio(c cuboid, placed []cuboid) float64 {
	fp := c.footprint()
	if fp <= 0 {
		return 0
	}
	return supportArea(c, placed) / fp
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
