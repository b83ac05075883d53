package engine

import (
	"fmt"

	"github.com/loadwise/loadpack/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.PackSettings
}

// ComparisonResult holds the load plan and computed statistics for a
// single scenario. Err is set when the scenario could not produce a
// complete plan; the other fields are zero in that case.
type ComparisonResult struct {
	Scenario       ComparisonScenario
	Result         model.PackResult
	Err            error
	ContainersUsed int
	BoxesPlaced    int
	Utilization    float64
	UnplacedCount  int
}

// CompareScenarios runs the solver for each scenario and returns the results
// in scenario order. This enables side-by-side comparison of different
// solver parameters (algorithm, support ratio, worker count).
func CompareScenarios(scenarios []ComparisonScenario, boxes []model.Box, containers []model.Container) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		opt := New(scenario.Settings)
		result, err := opt.Optimize(boxes, containers)
		if err != nil {
			results = append(results, ComparisonResult{
				Scenario: scenario,
				Err:      err,
			})
			continue
		}

		results = append(results, ComparisonResult{
			Scenario:       scenario,
			Result:         result,
			ContainersUsed: len(result.Containers),
			BoxesPlaced:    result.BoxesPlaced(),
			Utilization:    result.TotalUtilization(),
			UnplacedCount:  len(result.UnplacedBoxes),
		})
	}

	return results
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(baseSettings model.PackSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: baseSettings,
		},
	}

	// Scenario: Try the other algorithm
	altAlgo := baseSettings
	if baseSettings.Algorithm == model.AlgorithmGreedy {
		altAlgo.Algorithm = model.AlgorithmAnnealing
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Simulated Annealing",
			Settings: altAlgo,
		})
	} else {
		altAlgo.Algorithm = model.AlgorithmGreedy
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Greedy First-Fit",
			Settings: altAlgo,
		})
	}

	// Scenario: No support constraint
	if baseSettings.MinSupport > 0 {
		noSupport := baseSettings
		noSupport.MinSupport = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Support Constraint",
			Settings: noSupport,
		})
	}

	// Scenario: Full support (every box fully rests on the one below)
	if baseSettings.MinSupport < 1.0 {
		fullSupport := baseSettings
		fullSupport.MinSupport = 1.0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Full Support Required",
			Settings: fullSupport,
		})
	}

	// Scenario: Double the annealing workers
	if baseSettings.Algorithm == model.AlgorithmAnnealing && baseSettings.Workers > 0 {
		moreWorkers := baseSettings
		moreWorkers.Workers = baseSettings.Workers * 2
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("%d Workers", moreWorkers.Workers),
			Settings: moreWorkers,
		})
	}

	return scenarios
}
