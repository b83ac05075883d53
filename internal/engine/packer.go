package engine

import "github.com/loadwise/loadpack/internal/model"

// containerPacker is one opened container instance: the spec it was opened
// from, the boxes committed so far, and the live candidate point frontier.
type containerPacker struct {
	spec       model.Container
	placements []model.Placement
	occupied   []cuboid
	usedWeight float64
	candidates *candidateSet
}

func newContainerPacker(spec model.Container) *containerPacker {
	return &containerPacker{
		spec:       spec,
		candidates: newCandidateSet(),
	}
}

// insert tries to place the box in this container. Orientations are tried
// in canonical order; for each orientation the candidate points are scanned
// in back-bottom-left priority and the first admissible point wins. Returns
// the committed placement, or false when every orientation and point has
// been exhausted. The box not fitting here is not an error.
func (cp *containerPacker) insert(box model.Box, minSupport float64) (model.Placement, bool) {
	if !cp.weightHeadroom(box.Weight) {
		return model.Placement{}, false
	}

	for _, o := range orientationsOf(box) {
		l, w, h := box.Dims(o)
		for _, p := range cp.candidates.points {
			c := cuboid{x: p.x, y: p.y, z: p.z, l: l, w: w, h: h}
			if !cp.admissible(c, minSupport) {
				continue
			}

			placement := model.Placement{
				Box:         box,
				Orientation: o,
				X:           p.x,
				Y:           p.y,
				Z:           p.z,
			}
			cp.placements = append(cp.placements, placement)
			cp.occupied = append(cp.occupied, c)
			cp.usedWeight += box.Weight
			cp.candidates.commit(c)
			return placement, true
		}
	}
	return model.Placement{}, false
}

// load converts the packer state into a ContainerLoad result.
func (cp *containerPacker) load() model.ContainerLoad {
	return model.ContainerLoad{
		Container:  cp.spec,
		Placements: cp.placements,
	}
}
