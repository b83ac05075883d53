package engine

import (
	"context"
	"sync"
	"time"

	"github.com/loadwise/loadpack/internal/model"
)

// bestSlot is the only state shared between annealing workers: the best load
// plan found so far. Ties on score go to the lower worker index so the final
// result does not depend on goroutine scheduling.
type bestSlot struct {
	mu     sync.Mutex
	result model.PackResult
	score  score
	worker int
	set    bool
}

// offer installs the candidate if it strictly beats the current best, or
// matches it and comes from a lower-indexed worker. Returns true when the
// slot was updated.
func (s *bestSlot) offer(r model.PackResult, sc score, worker int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set && !sc.better(s.score) && !(sc.equal(s.score) && worker < s.worker) {
		return false
	}
	s.result = r
	s.score = sc
	s.worker = worker
	s.set = true
	return true
}

func (s *bestSlot) get() (model.PackResult, score) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.score
}

// solveParallel runs one annealer per worker, each seeded with Seed plus its
// worker index. The greedy first-fit-decreasing plan is computed up front and
// installed as the floor, so an expired time budget still yields a complete
// plan. Workers publish improvements to the shared slot as they find them.
func (o *Optimizer) solveParallel(ctx context.Context, expanded []model.Box, containers []model.Container) (model.PackResult, error) {
	workers := o.Settings.Workers
	if workers < 1 {
		workers = 1
	}

	if o.Settings.TimeBudget > 0 {
		var cancel context.CancelFunc
		budget := time.Duration(o.Settings.TimeBudget * float64(time.Second))
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	greedy := o.packOrdering(defaultOrdering(expanded), containers)
	slot := &bestSlot{}
	slot.offer(greedy, scoreOf(greedy), workers)

	config := DefaultAnnealingConfig()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			a := newAnnealer(o, config, expanded, containers, o.Settings.Seed+int64(worker))
			a.publish = func(r model.PackResult, sc score) {
				slot.offer(r, sc, worker)
			}
			result, sc := a.solve(ctx, o.Settings.Iterations, o.Settings.MaxStall)
			if slot.offer(result, sc, worker) {
				o.Log.Debug().
					Int("worker", worker).
					Int("containers", sc.containers).
					Int("unplaced", sc.unplaced).
					Float64("utilization", sc.utilization).
					Msg("annealing worker improved best plan")
			}
		}(i)
	}
	wg.Wait()

	best, sc := slot.get()
	if sc.unplaced > 0 {
		first := best.UnplacedBoxes[0]
		return model.PackResult{}, &InfeasibleError{BoxID: first.ID, Label: first.Label}
	}

	o.Log.Info().
		Int("workers", workers).
		Int("containers", sc.containers).
		Float64("utilization", sc.utilization).
		Msg("annealing search finished")
	return best, nil
}
