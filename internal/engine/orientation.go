package engine

import "github.com/loadwise/loadpack/internal/model"

// orientationsOf returns the orientation indices to try for a box, in a
// fixed canonical order so repeated runs are reproducible. A box with fixed
// rotation yields only its native orientation; otherwise all 6 axis
// permutations are yielded with duplicates removed (a cube yields 1, a
// square-base box yields fewer than 6).
func orientationsOf(box model.Box) []int {
	if box.Rotation == model.RotationFixed {
		return []int{0}
	}

	type dims struct{ l, w, h float64 }
	seen := make(map[dims]bool, 6)
	result := make([]int, 0, 6)
	for i := 0; i < 6; i++ {
		l, w, h := box.Dims(i)
		d := dims{l, w, h}
		if seen[d] {
			continue
		}
		seen[d] = true
		result = append(result, i)
	}
	return result
}

// fitsSomeOrientation returns true if the box fits within the given
// container dimensions in at least one allowed orientation.
func fitsSomeOrientation(box model.Box, c model.Container) bool {
	for _, o := range orientationsOf(box) {
		l, w, h := box.Dims(o)
		if l <= c.Length+geomEps && w <= c.Width+geomEps && h <= c.Height+geomEps {
			return true
		}
	}
	return false
}
