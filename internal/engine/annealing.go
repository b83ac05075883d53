package engine

import (
	"context"
	"math"
	"math/rand"

	"github.com/loadwise/loadpack/internal/model"
)

// AnnealingConfig holds parameters for the simulated annealing search.
type AnnealingConfig struct {
	InitialTemp float64
	MinTemp     float64
	Cooling     float64 // Geometric cooling factor per iteration
}

// DefaultAnnealingConfig returns sensible default parameters.
func DefaultAnnealingConfig() AnnealingConfig {
	return AnnealingConfig{
		InitialTemp: 1000,
		MinTemp:     0.1,
		Cooling:     0.995,
	}
}

// score ranks load plans lexicographically: feasibility first, then fewer
// containers, then higher average volume utilization.
type score struct {
	unplaced    int
	containers  int
	utilization float64 // percent
}

func scoreOf(r model.PackResult) score {
	return score{
		unplaced:    len(r.UnplacedBoxes),
		containers:  len(r.Containers),
		utilization: r.TotalUtilization(),
	}
}

// better reports whether s strictly beats t.
func (s score) better(t score) bool {
	if s.unplaced != t.unplaced {
		return s.unplaced < t.unplaced
	}
	if s.containers != t.containers {
		return s.containers < t.containers
	}
	return s.utilization > t.utilization
}

func (s score) equal(t score) bool {
	return s.unplaced == t.unplaced && s.containers == t.containers && s.utilization == t.utilization
}

// fitness collapses the score into a scalar for the annealing acceptance
// rule. Lower is better.
func (s score) fitness() float64 {
	return float64(s.unplaced)*10000 + float64(s.containers)*1000 + (100-s.utilization)*10
}

// annealer searches box orderings by simulated annealing: each iteration
// perturbs the current ordering, repacks it from scratch, and accepts the
// trial either on improvement or with probability exp(-delta/T).
type annealer struct {
	opt        *Optimizer
	config     AnnealingConfig
	boxes      []model.Box // pre-expanded
	containers []model.Container
	rng        *rand.Rand

	// publish, when set, is called with each new local best so a shared
	// slot can track the global best while workers are still running.
	publish func(model.PackResult, score)
}

func newAnnealer(opt *Optimizer, config AnnealingConfig, boxes []model.Box, containers []model.Container, seed int64) *annealer {
	return &annealer{
		opt:        opt,
		config:     config,
		boxes:      boxes,
		containers: containers,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// solve runs the annealing loop for at most the given iterations, starting
// from the greedy volume-descending ordering. The context is polled between
// iterations only; on cancellation the best plan found so far is returned.
func (a *annealer) solve(ctx context.Context, iterations, maxStall int) (model.PackResult, score) {
	current := defaultOrdering(a.boxes)
	currentResult := a.opt.packOrdering(current, a.containers)
	currentScore := scoreOf(currentResult)

	best := currentResult
	bestScore := currentScore

	temp := a.config.InitialTemp
	stall := 0

	for iter := 0; iter < iterations; iter++ {
		if ctx.Err() != nil {
			break
		}

		trial := a.neighbor(current)
		trialResult := a.opt.packOrdering(trial, a.containers)
		trialScore := scoreOf(trialResult)

		if a.accept(currentScore, trialScore, temp) {
			current = trial
			currentResult = trialResult
			currentScore = trialScore
		}

		if trialScore.better(bestScore) {
			best = trialResult
			bestScore = trialScore
			stall = 0
			if a.publish != nil {
				a.publish(best, bestScore)
			}
		} else {
			stall++
			if maxStall > 0 && stall >= maxStall {
				break
			}
		}

		temp *= a.config.Cooling
		if temp < a.config.MinTemp {
			temp = a.config.MinTemp
		}
	}

	return best, bestScore
}

// accept implements the annealing acceptance rule: better or equal trials
// are always taken, worse trials with probability exp(-delta/T) so the
// search can escape local optima.
func (a *annealer) accept(current, trial score, temp float64) bool {
	delta := trial.fitness() - current.fitness()
	if delta <= 0 {
		return true
	}
	if temp <= 0 {
		return false
	}
	return a.rng.Float64() < math.Exp(-delta/temp)
}

// neighbor produces a perturbed copy of the ordering: usually a swap of two
// positions or a reinsertion of one box elsewhere, occasionally a segment
// inversion.
func (a *annealer) neighbor(order []model.Box) []model.Box {
	n := len(order)
	trial := make([]model.Box, n)
	copy(trial, order)
	if n < 2 {
		return trial
	}

	switch choice := a.rng.Float64(); {
	case choice < 0.45:
		// Swap two positions
		i := a.rng.Intn(n)
		j := a.rng.Intn(n)
		trial[i], trial[j] = trial[j], trial[i]

	case choice < 0.90:
		// Remove one box and reinsert it at a new position
		i := a.rng.Intn(n)
		box := trial[i]
		rest := append(trial[:i], trial[i+1:]...)
		j := a.rng.Intn(n)
		rest = append(rest, model.Box{})
		copy(rest[j+1:], rest[j:])
		rest[j] = box
		trial = rest

	default:
		// Reverse a segment
		i := a.rng.Intn(n)
		j := a.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			trial[i], trial[j] = trial[j], trial[i]
			i++
			j--
		}
	}
	return trial
}
