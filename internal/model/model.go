package model

import "github.com/google/uuid"

// Rotation represents the rotation policy for a box.
type Rotation int

const (
	RotationFree  Rotation = iota // All 6 axis-aligned orientations allowed
	RotationFixed                 // Box must be loaded in its native orientation
)

func (r Rotation) String() string {
	switch r {
	case RotationFixed:
		return "Fixed"
	default:
		return "Free"
	}
}

// Box represents a rectangular item to be loaded. Dimensions are in mm,
// weight in kg. Length runs along the x axis, Width along y, Height along z.
type Box struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Length   float64  `json:"length"` // mm (x)
	Width    float64  `json:"width"`  // mm (y)
	Height   float64  `json:"height"` // mm (z)
	Weight   float64  `json:"weight"` // kg
	Quantity int      `json:"quantity"`
	Rotation Rotation `json:"rotation"`
	// MinSupport overrides the global minimum support ratio for this box
	// when non-nil (0.0 disables the check, 1.0 requires full support).
	MinSupport *float64 `json:"min_support,omitempty"`
}

func NewBox(label string, l, w, h, weight float64, qty int) Box {
	return Box{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Length:   l,
		Width:    w,
		Height:   h,
		Weight:   weight,
		Quantity: qty,
		Rotation: RotationFree,
	}
}

// Volume returns the box volume in cubic mm.
func (b Box) Volume() float64 {
	return b.Length * b.Width * b.Height
}

// BaseArea returns the footprint area of the box in its native orientation.
func (b Box) BaseArea() float64 {
	return b.Length * b.Width
}

// orientationTable lists the 6 axis permutations of (L, W, H). The order is
// fixed so repeated runs enumerate orientations identically.
var orientationTable = [6][3]int{
	{0, 1, 2}, // L W H
	{0, 2, 1}, // L H W
	{1, 0, 2}, // W L H
	{1, 2, 0}, // W H L
	{2, 0, 1}, // H L W
	{2, 1, 0}, // H W L
}

// Dims returns the box dimensions (length, width, height) for the given
// orientation index 0-5. Index 0 is the native orientation.
func (b Box) Dims(orientation int) (l, w, h float64) {
	d := [3]float64{b.Length, b.Width, b.Height}
	p := orientationTable[orientation]
	return d[p[0]], d[p[1]], d[p[2]]
}

// Container represents an available container type. MaxWeight 0 means no
// weight limit; Quantity 0 means an unlimited supply of this type.
type Container struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Length    float64 `json:"length"`     // mm (x)
	Width     float64 `json:"width"`      // mm (y)
	Height    float64 `json:"height"`     // mm (z)
	MaxWeight float64 `json:"max_weight"` // kg, 0 = unlimited
	Quantity  int     `json:"quantity"`   // 0 = unlimited
}

func NewContainer(label string, l, w, h, maxWeight float64, qty int) Container {
	return Container{
		ID:        uuid.New().String()[:8],
		Label:     label,
		Length:    l,
		Width:     w,
		Height:    h,
		MaxWeight: maxWeight,
		Quantity:  qty,
	}
}

// Volume returns the container volume in cubic mm.
func (c Container) Volume() float64 {
	return c.Length * c.Width * c.Height
}

// Algorithm represents the solver algorithm to use.
type Algorithm string

const (
	AlgorithmGreedy    Algorithm = "greedy"    // First-fit-decreasing baseline (fast)
	AlgorithmAnnealing Algorithm = "annealing" // Simulated annealing meta-heuristic (slower, often better)
)

// PackSettings holds solver configuration.
type PackSettings struct {
	Algorithm  Algorithm `json:"algorithm"`
	MinSupport float64   `json:"min_support"` // Default minimum support ratio, 0 disables
	Workers    int       `json:"workers"`     // Parallel annealing workers
	Iterations int       `json:"iterations"`  // Annealing iterations per worker
	MaxStall   int       `json:"max_stall"`   // Stop after this many non-improving iterations, 0 = never
	TimeBudget float64   `json:"time_budget"` // Wall-clock budget in seconds, 0 = none
	Seed       int64     `json:"seed"`
}

func DefaultSettings() PackSettings {
	return PackSettings{
		Algorithm:  AlgorithmAnnealing,
		MinSupport: 0.0,
		Workers:    4,
		Iterations: 2000,
		MaxStall:   0,
		TimeBudget: 0,
		Seed:       42,
	}
}

// Placement represents a single box loaded into a container. X, Y, Z is the
// minimum corner of the box; Orientation indexes Box.Dims.
type Placement struct {
	Box         Box     `json:"box"`
	Orientation int     `json:"orientation"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Z           float64 `json:"z"`
}

// PlacedLength returns the effective x extent considering orientation.
func (p Placement) PlacedLength() float64 {
	l, _, _ := p.Box.Dims(p.Orientation)
	return l
}

// PlacedWidth returns the effective y extent considering orientation.
func (p Placement) PlacedWidth() float64 {
	_, w, _ := p.Box.Dims(p.Orientation)
	return w
}

// PlacedHeight returns the effective z extent considering orientation.
func (p Placement) PlacedHeight() float64 {
	_, _, h := p.Box.Dims(p.Orientation)
	return h
}

// ContainerLoad represents one opened container with its loaded boxes.
type ContainerLoad struct {
	Container  Container   `json:"container"`
	Placements []Placement `json:"placements"`
}

// UsedVolume returns the total volume occupied by loaded boxes.
func (cl ContainerLoad) UsedVolume() float64 {
	var total float64
	for _, p := range cl.Placements {
		total += p.Box.Volume()
	}
	return total
}

// UsedWeight returns the total weight of loaded boxes.
func (cl ContainerLoad) UsedWeight() float64 {
	var total float64
	for _, p := range cl.Placements {
		total += p.Box.Weight
	}
	return total
}

// TotalVolume returns the container volume.
func (cl ContainerLoad) TotalVolume() float64 {
	return cl.Container.Volume()
}

// Utilization returns the volume usage percentage.
func (cl ContainerLoad) Utilization() float64 {
	tv := cl.TotalVolume()
	if tv == 0 {
		return 0
	}
	return (cl.UsedVolume() / tv) * 100.0
}

// PackResult holds the full load plan.
type PackResult struct {
	Containers    []ContainerLoad `json:"containers"`
	UnplacedBoxes []Box           `json:"unplaced_boxes"`
}

// TotalUtilization returns overall volume usage percentage across all
// opened containers.
func (pr PackResult) TotalUtilization() float64 {
	var used, total float64
	for _, cl := range pr.Containers {
		used += cl.UsedVolume()
		total += cl.TotalVolume()
	}
	if total == 0 {
		return 0
	}
	return (used / total) * 100.0
}

// BoxesPlaced returns the total number of placed boxes.
func (pr PackResult) BoxesPlaced() int {
	total := 0
	for _, cl := range pr.Containers {
		total += len(cl.Placements)
	}
	return total
}

// TotalWeight returns the combined weight of all placed boxes.
func (pr PackResult) TotalWeight() float64 {
	var total float64
	for _, cl := range pr.Containers {
		total += cl.UsedWeight()
	}
	return total
}

// Project ties everything together for save/load.
type Project struct {
	Name       string       `json:"name"`
	Boxes      []Box        `json:"boxes"`
	Containers []Container  `json:"containers"`
	Settings   PackSettings `json:"settings"`
	Result     *PackResult  `json:"result,omitempty"`
}

func NewProject() Project {
	return Project{
		Name:       "Untitled",
		Boxes:      []Box{},
		Containers: []Container{},
		Settings:   DefaultSettings(),
	}
}
