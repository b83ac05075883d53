package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/loadwise/loadpack/internal/model"
)

// SaveProject writes a project to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveProject(path string, p model.Project) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadProject reads a project from the specified JSON file.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("read project %s: %w", path, err)
	}
	var p model.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("parse project %s: %w", path, err)
	}
	if p.Boxes == nil {
		p.Boxes = []model.Box{}
	}
	if p.Containers == nil {
		p.Containers = []model.Container{}
	}
	return p, nil
}
