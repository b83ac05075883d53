package engine

import "sort"

// candidatePoint is a potential anchor corner for the next box in a
// container. Points are derived state: they are recomputed on every commit
// and never outlive their container.
type candidatePoint struct {
	x, y, z float64
}

// candidateSet maintains the frontier of placement anchors for one open
// container. Points are kept sorted back-bottom-left: lowest z first, then
// lowest y, then lowest x, which favors low, stable, space-efficient
// stacking.
type candidateSet struct {
	points []candidatePoint
}

// newCandidateSet starts with a single anchor at the container origin.
func newCandidateSet() *candidateSet {
	return &candidateSet{points: []candidatePoint{{0, 0, 0}}}
}

func pointLess(a, b candidatePoint) bool {
	if a.z != b.z {
		return a.z < b.z
	}
	if a.y != b.y {
		return a.y < b.y
	}
	return a.x < b.x
}

func samePoint(a, b candidatePoint) bool {
	return absf(a.x-b.x) <= geomEps && absf(a.y-b.y) <= geomEps && absf(a.z-b.z) <= geomEps
}

// add inserts a point unless a coincident point already exists.
func (cs *candidateSet) add(p candidatePoint) {
	for _, q := range cs.points {
		if samePoint(p, q) {
			return
		}
	}
	cs.points = append(cs.points, p)
	sort.Slice(cs.points, func(i, j int) bool {
		return pointLess(cs.points[i], cs.points[j])
	})
}

// enclosedBy reports whether the point lies inside the placed cuboid. The
// min-corner faces are included so the consumed anchor itself is discarded;
// points on the max faces survive since they can still anchor boxes that
// touch the placed one.
func (p candidatePoint) enclosedBy(c cuboid) bool {
	return p.x >= c.x-geomEps && p.x < c.maxX()-geomEps &&
		p.y >= c.y-geomEps && p.y < c.maxY()-geomEps &&
		p.z >= c.z-geomEps && p.z < c.maxZ()-geomEps
}

// commit updates the set after a box has been placed at the given cuboid:
// points enclosed by the placed box are discarded (dominance pruning, this
// bounds set growth) and the three far-corner anchors of the placed box are
// added (max-x face, max-y face, top face).
func (cs *candidateSet) commit(placed cuboid) {
	kept := cs.points[:0]
	for _, p := range cs.points {
		if !p.enclosedBy(placed) {
			kept = append(kept, p)
		}
	}
	cs.points = kept

	cs.add(candidatePoint{placed.maxX(), placed.y, placed.z})
	cs.add(candidatePoint{placed.x, placed.maxY(), placed.z})
	cs.add(candidatePoint{placed.x, placed.y, placed.maxZ()})
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
