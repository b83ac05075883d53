package engine

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/loadwise/loadpack/internal/model"
)

// Optimizer runs the 3D load packing algorithm.
type Optimizer struct {
	Settings model.PackSettings
	Log      zerolog.Logger
}

func New(settings model.PackSettings) *Optimizer {
	return &Optimizer{Settings: settings, Log: zerolog.Nop()}
}

// Optimize assigns every box to a container and returns the load plan.
// Boxes and containers are validated up front; a box that cannot fit any
// container type in any orientation aborts the run with UnfittableBoxError.
// Depending on Settings.Algorithm the result is either the greedy
// first-fit-decreasing baseline or the best plan found by the simulated
// annealing search within the configured budget.
func (o *Optimizer) Optimize(boxes []model.Box, containers []model.Container) (model.PackResult, error) {
	return o.OptimizeContext(context.Background(), boxes, containers)
}

// OptimizeContext is Optimize with caller-controlled cancellation. The
// context is polled between annealing iterations, never mid-placement;
// cancellation returns the best feasible plan found so far.
func (o *Optimizer) OptimizeContext(ctx context.Context, boxes []model.Box, containers []model.Container) (model.PackResult, error) {
	if err := validateInput(boxes, containers); err != nil {
		return model.PackResult{}, err
	}

	expanded := expandBoxes(boxes)
	if len(expanded) == 0 || len(containers) == 0 {
		return model.PackResult{}, nil
	}

	for i := range expanded {
		if !fitsAnyContainer(expanded[i], containers) {
			return model.PackResult{}, &UnfittableBoxError{BoxID: expanded[i].ID, Label: expanded[i].Label}
		}
	}

	if o.Settings.Algorithm == model.AlgorithmAnnealing {
		return o.solveParallel(ctx, expanded, containers)
	}

	result := o.packOrdering(defaultOrdering(expanded), containers)
	if len(result.UnplacedBoxes) > 0 {
		first := result.UnplacedBoxes[0]
		return model.PackResult{}, &InfeasibleError{BoxID: first.ID, Label: first.Label}
	}
	return result, nil
}

// validateInput rejects boxes and containers with non-positive dimensions
// or negative weight/capacity before any placement is attempted.
func validateInput(boxes []model.Box, containers []model.Container) error {
	for _, b := range boxes {
		switch {
		case b.Length <= 0 || b.Width <= 0 || b.Height <= 0:
			return &InvalidInputError{Kind: "box", ID: b.ID, Label: b.Label, Reason: "dimensions must be positive"}
		case b.Weight < 0:
			return &InvalidInputError{Kind: "box", ID: b.ID, Label: b.Label, Reason: "weight must not be negative"}
		case b.Quantity < 0:
			return &InvalidInputError{Kind: "box", ID: b.ID, Label: b.Label, Reason: "quantity must not be negative"}
		case b.MinSupport != nil && (*b.MinSupport < 0 || *b.MinSupport > 1):
			return &InvalidInputError{Kind: "box", ID: b.ID, Label: b.Label, Reason: "minimum support ratio must be between 0 and 1"}
		}
	}
	for _, c := range containers {
		switch {
		case c.Length <= 0 || c.Width <= 0 || c.Height <= 0:
			return &InvalidInputError{Kind: "container", ID: c.ID, Label: c.Label, Reason: "dimensions must be positive"}
		case c.MaxWeight < 0:
			return &InvalidInputError{Kind: "container", ID: c.ID, Label: c.Label, Reason: "weight capacity must not be negative"}
		case c.Quantity < 0:
			return &InvalidInputError{Kind: "container", ID: c.ID, Label: c.Label, Reason: "quantity must not be negative"}
		}
	}
	return nil
}

// expandBoxes expands boxes by quantity into individual placement
// candidates. A quantity of 0 is treated as 1.
func expandBoxes(boxes []model.Box) []model.Box {
	var expanded []model.Box
	for _, b := range boxes {
		qty := b.Quantity
		if qty == 0 {
			qty = 1
		}
		for i := 0; i < qty; i++ {
			cp := b
			cp.Quantity = 1
			expanded = append(expanded, cp)
		}
	}
	return expanded
}

// fitsAnyContainer returns true if the box fits at least one container type
// in some allowed orientation, ignoring weight and other boxes.
func fitsAnyContainer(box model.Box, containers []model.Container) bool {
	for _, c := range containers {
		if fitsSomeOrientation(box, c) {
			return true
		}
	}
	return false
}

// defaultOrdering sorts boxes by descending volume, ties broken by
// descending base area, then by ID so identical inputs always produce the
// same sequence.
func defaultOrdering(boxes []model.Box) []model.Box {
	ordered := make([]model.Box, len(boxes))
	copy(ordered, boxes)
	sort.SliceStable(ordered, func(i, j int) bool {
		vi, vj := ordered[i].Volume(), ordered[j].Volume()
		if vi != vj {
			return vi > vj
		}
		ai, aj := ordered[i].BaseArea(), ordered[j].BaseArea()
		if ai != aj {
			return ai > aj
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

// containerPool tracks how many instances of each container type may still
// be opened. Specs are kept sorted smallest volume first so new containers
// waste as little space as possible.
type containerPool struct {
	specs     []model.Container
	remaining []int // -1 = unlimited
}

func newContainerPool(containers []model.Container) *containerPool {
	specs := make([]model.Container, len(containers))
	copy(specs, containers)
	sort.SliceStable(specs, func(i, j int) bool {
		vi, vj := specs[i].Volume(), specs[j].Volume()
		if vi != vj {
			return vi < vj
		}
		return specs[i].ID < specs[j].ID
	})

	remaining := make([]int, len(specs))
	for i, s := range specs {
		if s.Quantity == 0 {
			remaining[i] = -1
		} else {
			remaining[i] = s.Quantity
		}
	}
	return &containerPool{specs: specs, remaining: remaining}
}

// open returns a fresh packer for the smallest available spec that could
// hold the box in some orientation, skipping specs already tried for this
// box. Returns nil when no spec is left.
func (p *containerPool) open(box model.Box, skip map[int]bool) (*containerPacker, int) {
	for i, spec := range p.specs {
		if skip[i] || p.remaining[i] == 0 {
			continue
		}
		if !fitsSomeOrientation(box, spec) {
			continue
		}
		if p.remaining[i] > 0 {
			p.remaining[i]--
		}
		return newContainerPacker(spec), i
	}
	return nil, -1
}

// release returns an unused instance allowance to the pool. Used when a
// freshly opened container still cannot accept the box (e.g. over weight).
func (p *containerPool) release(idx int) {
	if idx >= 0 && p.remaining[idx] >= 0 {
		p.remaining[idx]++
	}
}

// packOrdering runs the placement engine over one ordered list of boxes.
// Each box is offered to the open containers in the order they were opened;
// when none admits it, new containers are opened smallest-volume-first
// until one does or the pool is exhausted. Boxes that cannot be placed end
// up in UnplacedBoxes; callers decide whether that is fatal.
func (o *Optimizer) packOrdering(ordered []model.Box, containers []model.Container) model.PackResult {
	pool := newContainerPool(containers)
	var open []*containerPacker
	var unplaced []model.Box

	for _, box := range ordered {
		minSupport := requiredSupport(box, o.Settings)
		placed := false

		for _, cp := range open {
			if _, ok := cp.insert(box, minSupport); ok {
				placed = true
				break
			}
		}

		// Open new containers until one admits the box. A fresh container
		// can still refuse it (weight capacity, support override), so keep
		// cycling through the remaining specs.
		tried := make(map[int]bool)
		for !placed {
			cp, idx := pool.open(box, tried)
			if cp == nil {
				break
			}
			if _, ok := cp.insert(box, minSupport); ok {
				open = append(open, cp)
				placed = true
			} else {
				pool.release(idx)
				tried[idx] = true
			}
		}

		if !placed {
			unplaced = append(unplaced, box)
		}
	}

	result := model.PackResult{UnplacedBoxes: unplaced}
	for _, cp := range open {
		if len(cp.placements) > 0 {
			result.Containers = append(result.Containers, cp.load())
		}
	}
	return result
}
