// Command loadpack computes 3D load plans: it assigns boxes to containers,
// runs the placement solver, prints a summary, and optionally exports the
// plan as PDF, labels, Excel manifest, or DXF wireframe.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/loadwise/loadpack/internal/engine"
	"github.com/loadwise/loadpack/internal/export"
	"github.com/loadwise/loadpack/internal/history"
	"github.com/loadwise/loadpack/internal/importer"
	"github.com/loadwise/loadpack/internal/model"
	"github.com/loadwise/loadpack/internal/project"
)

type options struct {
	projectPath    string
	boxesPath      string
	containersPath string

	algorithm  string
	minSupport float64
	workers    int
	iterations int
	seed       int64
	timeBudget float64

	pdfPath    string
	labelsPath string
	xlsxPath   string
	dxfPath    string
	savePath   string

	compare    bool
	showRecent bool
	noHistory  bool
	verbose    bool
}

func main() {
	opts := parseFlags()

	level := zerolog.InfoLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	if err := run(opts, log); err != nil {
		log.Fatal().Err(err).Msg("loadpack failed")
	}
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.projectPath, "project", "", "load a saved project file (JSON)")
	flag.StringVar(&opts.boxesPath, "boxes", "", "import boxes from a CSV or Excel file")
	flag.StringVar(&opts.containersPath, "containers", "", "import container types from a CSV or Excel file (default: fleet)")

	defaults := model.DefaultSettings()
	flag.StringVar(&opts.algorithm, "algorithm", "", "solver algorithm: greedy or annealing (default from config)")
	flag.Float64Var(&opts.minSupport, "min-support", -1, "minimum support ratio 0..1 (default from config)")
	flag.IntVar(&opts.workers, "workers", 0, "parallel annealing workers (default from config)")
	flag.IntVar(&opts.iterations, "iterations", 0, "annealing iterations per worker (default from config)")
	flag.Int64Var(&opts.seed, "seed", defaults.Seed, "random seed for the annealing search")
	flag.Float64Var(&opts.timeBudget, "time-budget", 0, "wall-clock budget in seconds, 0 = none")

	flag.StringVar(&opts.pdfPath, "pdf", "", "export the load plan as a PDF document")
	flag.StringVar(&opts.labelsPath, "labels", "", "export QR-coded box labels as a PDF")
	flag.StringVar(&opts.xlsxPath, "xlsx", "", "export the loading manifest as an Excel workbook")
	flag.StringVar(&opts.dxfPath, "dxf", "", "export the load plan as a DXF wireframe drawing")
	flag.StringVar(&opts.savePath, "save", "", "save the project including the result as JSON")

	flag.BoolVar(&opts.compare, "compare", false, "run what-if scenarios and print a comparison table")
	flag.BoolVar(&opts.showRecent, "recent", false, "list recent solver runs and exit")
	flag.BoolVar(&opts.noHistory, "no-history", false, "do not record this run in the history database")
	flag.BoolVar(&opts.verbose, "v", false, "verbose logging")

	flag.Parse()
	return opts
}

func run(opts options, log zerolog.Logger) error {
	config, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if opts.showRecent {
		return printRecentRuns(log)
	}

	proj, err := loadInputs(opts, config, log)
	if err != nil {
		return err
	}
	if len(proj.Boxes) == 0 {
		return errors.New("no boxes to pack; use -project or -boxes")
	}
	if len(proj.Containers) == 0 {
		return errors.New("no container types available")
	}

	applyFlagOverrides(&proj.Settings, opts)

	log.Info().
		Str("algorithm", string(proj.Settings.Algorithm)).
		Int("boxes", countBoxes(proj.Boxes)).
		Int("container_types", len(proj.Containers)).
		Msg("starting solver")

	if opts.compare {
		return runComparison(proj, log)
	}

	opt := engine.New(proj.Settings)
	opt.Log = log

	start := time.Now()
	result, err := opt.Optimize(proj.Boxes, proj.Containers)
	elapsed := time.Since(start)
	if err != nil {
		return err
	}

	printSummary(result, elapsed)

	if !opts.noHistory && config.HistoryEnabled {
		if err := recordRun(proj, result, elapsed); err != nil {
			log.Warn().Err(err).Msg("could not record run in history")
		}
	}

	if err := writeExports(opts, result, log); err != nil {
		return err
	}

	if opts.savePath != "" {
		proj.Result = &result
		if err := project.SaveProject(opts.savePath, proj); err != nil {
			return fmt.Errorf("save project: %w", err)
		}
		config.AddRecentProject(opts.savePath, 10)
		if err := project.SaveAppConfig(project.DefaultConfigPath(), config); err != nil {
			log.Warn().Err(err).Msg("could not update recent projects")
		}
		log.Info().Str("path", opts.savePath).Msg("project saved")
	}

	return nil
}

// loadInputs builds the working project from a saved project file or from
// imported box/container lists, falling back to the saved fleet for
// container types.
func loadInputs(opts options, config model.AppConfig, log zerolog.Logger) (model.Project, error) {
	if opts.projectPath != "" {
		proj, err := project.LoadProject(opts.projectPath)
		if err != nil {
			return model.Project{}, err
		}
		log.Info().Str("path", opts.projectPath).Str("name", proj.Name).Msg("project loaded")
		return proj, nil
	}

	proj := model.NewProject()
	config.ApplyToSettings(&proj.Settings)

	if opts.boxesPath != "" {
		result := importBoxes(opts.boxesPath)
		for _, w := range result.Warnings {
			log.Warn().Msg(w)
		}
		if len(result.Errors) > 0 {
			return model.Project{}, fmt.Errorf("import boxes: %s", strings.Join(result.Errors, "; "))
		}
		proj.Boxes = result.Boxes
		proj.Name = strings.TrimSuffix(filepath.Base(opts.boxesPath), filepath.Ext(opts.boxesPath))
	}

	if opts.containersPath != "" {
		result := importContainers(opts.containersPath)
		for _, w := range result.Warnings {
			log.Warn().Msg(w)
		}
		if len(result.Errors) > 0 {
			return model.Project{}, fmt.Errorf("import containers: %s", strings.Join(result.Errors, "; "))
		}
		proj.Containers = result.Containers
	} else {
		fleet, _, err := project.LoadOrCreateFleet()
		if err != nil {
			return model.Project{}, fmt.Errorf("load fleet: %w", err)
		}
		proj.Containers = fleet.Containers
	}

	return proj, nil
}

func importBoxes(path string) importer.ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return importer.ImportExcel(path)
	default:
		return importer.ImportCSV(path)
	}
}

func importContainers(path string) importer.ContainerImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return importer.ImportContainersExcel(path)
	default:
		return importer.ImportContainersCSV(path)
	}
}

// applyFlagOverrides lets explicit command line flags win over project and
// config defaults.
func applyFlagOverrides(settings *model.PackSettings, opts options) {
	if opts.algorithm != "" {
		settings.Algorithm = model.Algorithm(opts.algorithm)
	}
	if opts.minSupport >= 0 {
		settings.MinSupport = opts.minSupport
	}
	if opts.workers > 0 {
		settings.Workers = opts.workers
	}
	if opts.iterations > 0 {
		settings.Iterations = opts.iterations
	}
	if opts.timeBudget > 0 {
		settings.TimeBudget = opts.timeBudget
	}
	settings.Seed = opts.seed
}

func countBoxes(boxes []model.Box) int {
	total := 0
	for _, b := range boxes {
		qty := b.Quantity
		if qty == 0 {
			qty = 1
		}
		total += qty
	}
	return total
}

func printSummary(result model.PackResult, elapsed time.Duration) {
	fmt.Printf("Load plan: %d containers, %d boxes, %.1f kg, %.1f%% average utilization (%.2fs)\n",
		len(result.Containers), result.BoxesPlaced(), result.TotalWeight(),
		result.TotalUtilization(), elapsed.Seconds())

	for i, cl := range result.Containers {
		fmt.Printf("  %2d. %-24s %3d boxes  %7.1f kg  %5.1f%%\n",
			i+1, cl.Container.Label, len(cl.Placements), cl.UsedWeight(), cl.Utilization())
	}
	if len(result.UnplacedBoxes) > 0 {
		fmt.Printf("  !! %d boxes could not be placed\n", len(result.UnplacedBoxes))
	}
}

func runComparison(proj model.Project, log zerolog.Logger) error {
	scenarios := engine.BuildDefaultScenarios(proj.Settings)
	log.Info().Int("scenarios", len(scenarios)).Msg("running comparison")

	results := engine.CompareScenarios(scenarios, proj.Boxes, proj.Containers)

	fmt.Printf("%-24s %10s %8s %12s %9s\n", "Scenario", "Containers", "Boxes", "Utilization", "Unplaced")
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%-24s failed: %v\n", r.Scenario.Name, r.Err)
			continue
		}
		fmt.Printf("%-24s %10d %8d %11.1f%% %9d\n",
			r.Scenario.Name, r.ContainersUsed, r.BoxesPlaced, r.Utilization, r.UnplacedCount)
	}
	return nil
}

func recordRun(proj model.Project, result model.PackResult, elapsed time.Duration) error {
	store, err := history.Open(history.DefaultPath())
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(proj.Name, proj.Settings, countBoxes(proj.Boxes), result, elapsed)
}

func printRecentRuns(log zerolog.Logger) error {
	store, err := history.Open(history.DefaultPath())
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(20)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}

	fmt.Printf("%-20s %-20s %-10s %10s %12s %9s\n",
		"When", "Project", "Algorithm", "Containers", "Utilization", "Unplaced")
	for _, r := range runs {
		fmt.Printf("%-20s %-20s %-10s %10d %11.1f%% %9d\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.ProjectName, r.Algorithm,
			r.ContainersUsed, r.Utilization, r.UnplacedBoxes)
	}
	return nil
}

func writeExports(opts options, result model.PackResult, log zerolog.Logger) error {
	exports := []struct {
		path string
		kind string
		fn   func(string, model.PackResult) error
	}{
		{opts.pdfPath, "pdf", export.ExportPDF},
		{opts.labelsPath, "labels", export.ExportLabels},
		{opts.xlsxPath, "xlsx", export.ExportExcel},
		{opts.dxfPath, "dxf", export.ExportDXF},
	}

	for _, e := range exports {
		if e.path == "" {
			continue
		}
		if err := e.fn(e.path, result); err != nil {
			return fmt.Errorf("export %s: %w", e.kind, err)
		}
		log.Info().Str("path", e.path).Msg("exported " + e.kind)
	}
	return nil
}
