// Package history records solver runs in a local SQLite database so past
// load plans can be reviewed and compared.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/loadwise/loadpack/internal/model"
)

// Run is one recorded solver invocation.
type Run struct {
	ID          uint      `gorm:"primaryKey"`
	CreatedAt   time.Time `gorm:"index"`
	ProjectName string
	Algorithm   string
	Seed        int64
	Iterations  int
	Workers     int
	MinSupport  float64

	BoxCount       int
	ContainersUsed int
	BoxesPlaced    int
	UnplacedBoxes  int
	Utilization    float64
	TotalWeight    float64
	DurationMS     int64
}

// Store wraps the history database.
type Store struct {
	db *gorm.DB
}

// DefaultPath returns the default history database location,
// ~/.loadpack/history.db.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".loadpack", "history.db")
}

// Open opens (or creates) the history database at the given path and runs
// migrations. An empty path opens a shared in-memory database.
func Open(path string) (*Store, error) {
	dsn := "file::memory:?cache=shared"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
		dsn = path
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, fmt.Errorf("migrate history db: %w", err)
	}

	return &Store{db: db}, nil
}

// Record stores one solver run.
func (s *Store) Record(projectName string, settings model.PackSettings, boxCount int, result model.PackResult, elapsed time.Duration) error {
	run := Run{
		CreatedAt:      time.Now(),
		ProjectName:    projectName,
		Algorithm:      string(settings.Algorithm),
		Seed:           settings.Seed,
		Iterations:     settings.Iterations,
		Workers:        settings.Workers,
		MinSupport:     settings.MinSupport,
		BoxCount:       boxCount,
		ContainersUsed: len(result.Containers),
		BoxesPlaced:    result.BoxesPlaced(),
		UnplacedBoxes:  len(result.UnplacedBoxes),
		Utilization:    result.TotalUtilization(),
		TotalWeight:    result.TotalWeight(),
		DurationMS:     elapsed.Milliseconds(),
	}
	return s.db.Create(&run).Error
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	err := s.db.Order("created_at desc, id desc").Limit(limit).Find(&runs).Error
	return runs, err
}

// BestForProject returns the run with the highest utilization among complete
// plans for the given project, or false if none exist.
func (s *Store) BestForProject(projectName string) (Run, bool, error) {
	var run Run
	err := s.db.
		Where("project_name = ? AND unplaced_boxes = 0", projectName).
		Order("utilization desc").
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, err
	}
	return run, true, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
