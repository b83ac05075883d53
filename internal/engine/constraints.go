package engine

import "github.com/loadwise/loadpack/internal/model"

// weightHeadroom reports whether adding the given weight keeps the
// container within its capacity. A MaxWeight of 0 means no limit.
func (cp *containerPacker) weightHeadroom(weight float64) bool {
	if cp.spec.MaxWeight <= 0 {
		return true
	}
	return cp.usedWeight+weight <= cp.spec.MaxWeight+geomEps
}

// admissible checks a candidate cuboid against all placement constraints:
// containment, non-overlap with every existing placement, and minimum
// support ratio. Checks are ordered cheapest first and short-circuit.
// Weight headroom does not depend on the candidate point and is checked
// once per box in insert.
func (cp *containerPacker) admissible(c cuboid, minSupport float64) bool {
	if !cuboidInside(c, cp.spec.Length, cp.spec.Width, cp.spec.Height) {
		return false
	}
	for _, occ := range cp.occupied {
		if cuboidsOverlap(c, occ) {
			return false
		}
	}
	if minSupport > 0 && supportRatio(c, cp.occupied) < minSupport-geomEps {
		return false
	}
	return true
}

// requiredSupport resolves the minimum support ratio for a box: its own
// override when set, otherwise the settings default.
func requiredSupport(box model.Box, settings model.PackSettings) float64 {
	if box.MinSupport != nil {
		return *box.MinSupport
	}
	return settings.MinSupport
}
