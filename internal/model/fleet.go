package model

// Fleet holds the reusable container definitions available to new projects.
type Fleet struct {
	Containers []Container `json:"containers"`
}

// DefaultFleet returns a fleet populated with common logistics container
// types. Interior dimensions in mm, payload capacity in kg.
func DefaultFleet() Fleet {
	return Fleet{
		Containers: []Container{
			NewContainer("EUR Pallet Cage", 1200, 800, 1000, 700, 0),
			NewContainer("Roll Container", 800, 700, 1600, 400, 0),
			NewContainer("20ft Container", 5898, 2352, 2393, 28200, 0),
			NewContainer("40ft Container", 12032, 2352, 2393, 26700, 0),
			NewContainer("40ft High Cube", 12032, 2352, 2698, 26500, 0),
			NewContainer("Box Truck 7.5t", 6100, 2400, 2300, 2800, 0),
		},
	}
}

// FindContainer returns the fleet container with the given id, or false if
// no such container exists.
func (f Fleet) FindContainer(id string) (Container, bool) {
	for _, c := range f.Containers {
		if c.ID == id {
			return c, true
		}
	}
	return Container{}, false
}
