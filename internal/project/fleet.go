package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/loadwise/loadpack/internal/model"
)

// DefaultFleetPath returns the default file path for the container fleet
// file. This is located at ~/.loadpack/fleet.json.
func DefaultFleetPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".loadpack", "fleet.json"), nil
}

// SaveFleet writes the fleet to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveFleet(path string, fleet model.Fleet) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(fleet, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadFleet reads the fleet from the specified JSON file.
// If the file does not exist, it returns the default fleet and saves it.
func LoadFleet(path string) (model.Fleet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fleet := model.DefaultFleet()
			if saveErr := SaveFleet(path, fleet); saveErr != nil {
				return fleet, saveErr
			}
			return fleet, nil
		}
		return model.Fleet{}, err
	}
	var fleet model.Fleet
	if err := json.Unmarshal(data, &fleet); err != nil {
		return model.Fleet{}, err
	}
	return fleet, nil
}

// LoadOrCreateFleet loads the fleet from the default path.
// If the file does not exist, it creates one with default entries.
func LoadOrCreateFleet() (model.Fleet, string, error) {
	path, err := DefaultFleetPath()
	if err != nil {
		return model.DefaultFleet(), "", err
	}
	fleet, err := LoadFleet(path)
	return fleet, path, err
}

// ImportFleet imports a fleet from a user-specified JSON file, merging it
// with the existing fleet. Duplicate IDs are skipped.
func ImportFleet(path string, existing model.Fleet) (model.Fleet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported model.Fleet
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, err
	}

	ids := make(map[string]bool, len(existing.Containers))
	for _, c := range existing.Containers {
		ids[c.ID] = true
	}
	for _, c := range imported.Containers {
		if !ids[c.ID] {
			existing.Containers = append(existing.Containers, c)
			ids[c.ID] = true
		}
	}

	return existing, nil
}
