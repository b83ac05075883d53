package engine

import "fmt"

// InvalidInputError reports a box or container with a non-positive
// dimension or negative weight/capacity. Raised before any placement is
// attempted.
type InvalidInputError struct {
	Kind   string // "box" or "container"
	ID     string
	Label  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.Label, e.Reason)
}

// UnfittableBoxError reports a box that cannot fit in any available
// container type in any allowed orientation. Fatal for the run.
type UnfittableBoxError struct {
	BoxID string
	Label string
}

func (e *UnfittableBoxError) Error() string {
	return fmt.Sprintf("box %q (%s) does not fit in any container type in any orientation", e.Label, e.BoxID)
}

// InfeasibleError reports that the greedy baseline could not place every
// box even though each box fits some container type. This usually means
// container quantities are exhausted or support constraints block every
// remaining anchor; it is reported distinctly from UnfittableBoxError.
type InfeasibleError struct {
	BoxID string
	Label string
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("no container can accept box %q (%s); load plan is infeasible", e.Label, e.BoxID)
}
