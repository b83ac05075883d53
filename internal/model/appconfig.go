package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default solver settings applied to new projects
	DefaultAlgorithm  Algorithm `json:"default_algorithm"`
	DefaultMinSupport float64   `json:"default_min_support"`
	DefaultWorkers    int       `json:"default_workers"`
	DefaultIterations int       `json:"default_iterations"`
	DefaultSeed       int64     `json:"default_seed"`

	// Application preferences
	RecentProjects []string `json:"recent_projects"`
	HistoryEnabled bool     `json:"history_enabled"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultAlgorithm:  defaults.Algorithm,
		DefaultMinSupport: defaults.MinSupport,
		DefaultWorkers:    defaults.Workers,
		DefaultIterations: defaults.Iterations,
		DefaultSeed:       defaults.Seed,
		RecentProjects:    []string{},
		HistoryEnabled:    true,
	}
}

// ApplyToSettings copies the default values from AppConfig into a
// PackSettings struct. Used when creating a new project so it inherits the
// user's saved defaults.
func (c AppConfig) ApplyToSettings(s *PackSettings) {
	s.Algorithm = c.DefaultAlgorithm
	s.MinSupport = c.DefaultMinSupport
	s.Workers = c.DefaultWorkers
	s.Iterations = c.DefaultIterations
	s.Seed = c.DefaultSeed
}

// AddRecentProject prepends a path to the recent projects list, removing
// duplicates and keeping at most max entries.
func (c *AppConfig) AddRecentProject(path string, max int) {
	updated := []string{path}
	for _, p := range c.RecentProjects {
		if p != path && len(updated) < max {
			updated = append(updated, p)
		}
	}
	c.RecentProjects = updated
}
