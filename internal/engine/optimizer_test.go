package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loadwise/loadpack/internal/model"
)

func defaultTestSettings() model.PackSettings {
	s := model.DefaultSettings()
	// Greedy keeps the geometry tests deterministic and fast; the annealing
	// path has its own tests.
	s.Algorithm = model.AlgorithmGreedy
	s.MinSupport = 0
	return s
}

func fptr(v float64) *float64 { return &v }

func TestOptimize_ThreeCubesShareOneContainer(t *testing.T) {
	opt := New(defaultTestSettings())
	boxes := []model.Box{
		{ID: "b1", Label: "A", Length: 5, Width: 5, Height: 5, Quantity: 1},
		{ID: "b2", Label: "B", Length: 5, Width: 5, Height: 5, Quantity: 1},
		{ID: "b3", Label: "C", Length: 5, Width: 5, Height: 5, Quantity: 1},
	}
	containers := []model.Container{
		{ID: "c1", Label: "Crate", Length: 10, Width: 10, Height: 10},
	}

	result, err := opt.Optimize(boxes, containers)

	require.NoError(t, err)
	require.Len(t, result.Containers, 1, "three 5-cubes fit one 10-cube container")
	assert.Len(t, result.Containers[0].Placements, 3)
	assert.Empty(t, result.UnplacedBoxes)
	for _, p := range result.Containers[0].Placements {
		assert.Zero(t, p.Z, "anchor ordering should fill the floor before stacking")
	}
}

func TestOptimize_SecondContainerOpensWhenFull(t *testing.T) {
	opt := New(defaultTestSettings())
	boxes := []model.Box{
		{ID: "b1", Label: "A", Length: 3, Width: 3, Height: 3, Quantity: 1},
		{ID: "b2", Label: "B", Length: 3, Width: 3, Height: 3, Quantity: 1},
	}
	containers := []model.Container{
		{ID: "c1", Label: "Small", Length: 4, Width: 4, Height: 4},
	}

	result, err := opt.Optimize(boxes, containers)

	require.NoError(t, err)
	require.Len(t, result.Containers, 2, "two 3-cubes cannot share a 4-cube container")
	assert.Len(t, result.Containers[0].Placements, 1)
	assert.Len(t, result.Containers[1].Placements, 1)
	assert.Empty(t, result.UnplacedBoxes)
}

func TestOptimize_OversizedBoxFails(t *testing.T) {
	opt := New(defaultTestSettings())
	boxes := []model.Box{
		{ID: "big", Label: "Oversize", Length: 20, Width: 20, Height: 20, Quantity: 1},
	}
	containers := []model.Container{
		{ID: "c1", Label: "Crate", Length: 10, Width: 10, Height: 10},
	}

	_, err := opt.Optimize(boxes, containers)

	var unfittable *UnfittableBoxError
	require.ErrorAs(t, err, &unfittable)
	assert.Equal(t, "big", unfittable.BoxID)
}

func TestOptimize_FullSupportForcesAlternativePlacement(t *testing.T) {
	// The plank overhangs the base cube by a third, so with full support
	// required it must go to a fresh container instead of stacking.
	boxes := []model.Box{
		{ID: "base", Label: "Base", Length: 4, Width: 4, Height: 4, Quantity: 1},
		{ID: "plank", Label: "Plank", Length: 6, Width: 4, Height: 2, Quantity: 1, Rotation: model.RotationFixed},
	}
	containers := []model.Container{
		{ID: "c1", Label: "Narrow", Length: 8, Width: 4, Height: 10},
	}

	settings := defaultTestSettings()
	settings.MinSupport = 1.0
	strict, err := New(settings).Optimize(boxes, containers)
	require.NoError(t, err)
	assert.Len(t, strict.Containers, 2, "partial support must not be accepted")

	settings.MinSupport = 0
	loose, err := New(settings).Optimize(boxes, containers)
	require.NoError(t, err)
	require.Len(t, loose.Containers, 1, "without the constraint the plank stacks on the base")
	require.Len(t, loose.Containers[0].Placements, 2)
	plank := loose.Containers[0].Placements[1]
	assert.Equal(t, 4.0, plank.Z)
}

func TestOptimize_PerBoxSupportOverride(t *testing.T) {
	boxes := []model.Box{
		{ID: "base", Label: "Base", Length: 4, Width: 4, Height: 4, Quantity: 1},
		{ID: "plank", Label: "Plank", Length: 6, Width: 4, Height: 2, Quantity: 1,
			Rotation: model.RotationFixed, MinSupport: fptr(0)},
	}
	containers := []model.Container{
		{ID: "c1", Label: "Narrow", Length: 8, Width: 4, Height: 10},
	}

	settings := defaultTestSettings()
	settings.MinSupport = 1.0
	result, err := New(settings).Optimize(boxes, containers)

	require.NoError(t, err)
	assert.Len(t, result.Containers, 1, "per-box override should relax the global support requirement")
}

func TestOptimize_WeightCapacityOpensNewContainer(t *testing.T) {
	opt := New(defaultTestSettings())
	boxes := []model.Box{
		{ID: "b1", Label: "Heavy", Length: 5, Width: 5, Height: 5, Weight: 6, Quantity: 1},
		{ID: "b2", Label: "AlsoHeavy", Length: 5, Width: 5, Height: 5, Weight: 5, Quantity: 1},
	}
	containers := []model.Container{
		{ID: "c1", Label: "Limited", Length: 10, Width: 10, Height: 10, MaxWeight: 10},
	}

	result, err := opt.Optimize(boxes, containers)

	require.NoError(t, err)
	require.Len(t, result.Containers, 2)
	for _, cl := range result.Containers {
		assert.LessOrEqual(t, cl.UsedWeight(), cl.Container.MaxWeight)
	}
}

func TestOptimize_ContainerQuantityExhausted(t *testing.T) {
	opt := New(defaultTestSettings())
	boxes := []model.Box{
		{ID: "b1", Label: "A", Length: 3, Width: 3, Height: 3, Quantity: 1},
		{ID: "b2", Label: "B", Length: 3, Width: 3, Height: 3, Quantity: 1},
	}
	containers := []model.Container{
		{ID: "c1", Label: "OnlyOne", Length: 4, Width: 4, Height: 4, Quantity: 1},
	}

	_, err := opt.Optimize(boxes, containers)

	var infeasible *InfeasibleError
	require.ErrorAs(t, err, &infeasible)
}

func TestOptimize_QuantityExpandsToIndividualBoxes(t *testing.T) {
	opt := New(defaultTestSettings())
	boxes := []model.Box{
		{ID: "b1", Label: "Triple", Length: 2, Width: 2, Height: 2, Quantity: 3},
	}
	containers := []model.Container{
		{ID: "c1", Label: "Crate", Length: 10, Width: 10, Height: 10},
	}

	result, err := opt.Optimize(boxes, containers)

	require.NoError(t, err)
	assert.Equal(t, 3, result.BoxesPlaced())
}

func TestOptimize_FixedRotationBlocksFit(t *testing.T) {
	boxes := []model.Box{
		{ID: "b1", Label: "Rod", Length: 5, Width: 1, Height: 1, Quantity: 1, Rotation: model.RotationFixed},
	}
	containers := []model.Container{
		{ID: "c1", Label: "Tall", Length: 1, Width: 1, Height: 5},
	}

	_, err := New(defaultTestSettings()).Optimize(boxes, containers)
	var unfittable *UnfittableBoxError
	require.ErrorAs(t, err, &unfittable, "fixed rotation must not be rotated into the tall container")

	boxes[0].Rotation = model.RotationFree
	result, err := New(defaultTestSettings()).Optimize(boxes, containers)
	require.NoError(t, err)
	assert.Equal(t, 1, result.BoxesPlaced())
}

func TestOptimize_SmallestAdequateContainerFirst(t *testing.T) {
	opt := New(defaultTestSettings())
	boxes := []model.Box{
		{ID: "b1", Label: "A", Length: 3, Width: 3, Height: 3, Quantity: 1},
	}
	containers := []model.Container{
		{ID: "c1", Label: "Huge", Length: 100, Width: 100, Height: 100},
		{ID: "c2", Label: "Snug", Length: 4, Width: 4, Height: 4},
	}

	result, err := opt.Optimize(boxes, containers)

	require.NoError(t, err)
	require.Len(t, result.Containers, 1)
	assert.Equal(t, "Snug", result.Containers[0].Container.Label)
}

func TestOptimize_InvalidInput(t *testing.T) {
	opt := New(defaultTestSettings())
	good := model.Container{ID: "c1", Label: "Crate", Length: 10, Width: 10, Height: 10}

	tests := []struct {
		name       string
		boxes      []model.Box
		containers []model.Container
	}{
		{
			"zero box dimension",
			[]model.Box{{ID: "b", Label: "Flat", Length: 5, Width: 0, Height: 5}},
			[]model.Container{good},
		},
		{
			"negative box weight",
			[]model.Box{{ID: "b", Label: "Antigravity", Length: 5, Width: 5, Height: 5, Weight: -1}},
			[]model.Container{good},
		},
		{
			"support ratio above one",
			[]model.Box{{ID: "b", Label: "Strict", Length: 5, Width: 5, Height: 5, MinSupport: fptr(1.5)}},
			[]model.Container{good},
		},
		{
			"negative container quantity",
			[]model.Box{{ID: "b", Label: "Ok", Length: 5, Width: 5, Height: 5}},
			[]model.Container{{ID: "c", Label: "Bad", Length: 10, Width: 10, Height: 10, Quantity: -1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := opt.Optimize(tt.boxes, tt.containers)
			var invalid *InvalidInputError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestOptimize_EmptyInput(t *testing.T) {
	opt := New(defaultTestSettings())
	result, err := opt.Optimize(nil, []model.Container{{ID: "c1", Label: "Crate", Length: 10, Width: 10, Height: 10}})
	require.NoError(t, err)
	assert.Empty(t, result.Containers)
	assert.Empty(t, result.UnplacedBoxes)
}

func TestOptimize_PlacementInvariants(t *testing.T) {
	opt := New(defaultTestSettings())
	boxes := []model.Box{
		{ID: "b1", Label: "Pallet", Length: 800, Width: 600, Height: 400, Weight: 120, Quantity: 4},
		{ID: "b2", Label: "Drum", Length: 500, Width: 500, Height: 900, Weight: 200, Quantity: 3},
		{ID: "b3", Label: "Carton", Length: 300, Width: 200, Height: 200, Weight: 8, Quantity: 12},
		{ID: "b4", Label: "Tube", Length: 1500, Width: 100, Height: 100, Weight: 15, Quantity: 2},
	}
	containers := []model.Container{
		{ID: "c1", Label: "Truck", Length: 2400, Width: 1200, Height: 1200, MaxWeight: 800},
	}

	result, err := opt.Optimize(boxes, containers)
	require.NoError(t, err)
	assert.Equal(t, 21, result.BoxesPlaced())

	for _, cl := range result.Containers {
		placed := make([]cuboid, 0, len(cl.Placements))
		for _, p := range cl.Placements {
			c := cuboid{x: p.X, y: p.Y, z: p.Z, l: p.PlacedLength(), w: p.PlacedWidth(), h: p.PlacedHeight()}
			assert.True(t, cuboidInside(c, cl.Container.Length, cl.Container.Width, cl.Container.Height),
				"box %s must lie within its container", p.Box.Label)
			for _, other := range placed {
				assert.False(t, cuboidsOverlap(c, other), "box %s overlaps another placement", p.Box.Label)
			}
			placed = append(placed, c)
		}
		if cl.Container.MaxWeight > 0 {
			assert.LessOrEqual(t, cl.UsedWeight(), cl.Container.MaxWeight)
		}
	}
}

func TestOptimize_GreedyOrderIsVolumeDescending(t *testing.T) {
	boxes := []model.Box{
		{ID: "b1", Label: "Small", Length: 1, Width: 1, Height: 1},
		{ID: "b2", Label: "Big", Length: 5, Width: 5, Height: 5},
		{ID: "b3", Label: "Mid", Length: 3, Width: 3, Height: 3},
	}

	ordered := defaultOrdering(boxes)

	require.Len(t, ordered, 3)
	assert.Equal(t, "Big", ordered[0].Label)
	assert.Equal(t, "Mid", ordered[1].Label)
	assert.Equal(t, "Small", ordered[2].Label)
}

func TestOptimize_ErrorMessagesNameTheBox(t *testing.T) {
	opt := New(defaultTestSettings())
	boxes := []model.Box{
		{ID: "big", Label: "Generator", Length: 20, Width: 20, Height: 20, Quantity: 1},
	}
	containers := []model.Container{
		{ID: "c1", Label: "Crate", Length: 10, Width: 10, Height: 10},
	}

	_, err := opt.Optimize(boxes, containers)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Generator")
	assert.False(t, errors.As(err, new(*InfeasibleError)), "dimensional misfit is unfittable, not infeasible")
}
