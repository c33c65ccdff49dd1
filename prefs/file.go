// ABOUTME: JSON file preference backend
// ABOUTME: Rewrites the whole document atomically (temp file + rename) on every update

package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore mirrors preferences to a JSON file
type FileStore struct {
	*Memory
	path string
}

// OpenFile loads preferences from path
// A missing file yields empty preferences; a corrupt one is an error.
func OpenFile(path string) (*FileStore, error) {
	store := &FileStore{Memory: NewMemory(State{}), path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}

		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}

	store.set(state)

	return store, nil
}

// Path returns the backing file
func (f *FileStore) Path() string {
	return f.path
}

// UpdateFilterStates replaces the saved selections and writes the file
func (f *FileStore) UpdateFilterStates(states map[string][]string) error {
	_ = f.Memory.UpdateFilterStates(states)

	return f.save()
}

// UpdateSearchQuery replaces the saved search text and writes the file
func (f *FileStore) UpdateSearchQuery(query string) error {
	_ = f.Memory.UpdateSearchQuery(query)

	return f.save()
}

// UpdateCombinationMode replaces the saved mode and writes the file
func (f *FileStore) UpdateCombinationMode(mode string) error {
	_ = f.Memory.UpdateCombinationMode(mode)

	return f.save()
}

func (f *FileStore) save() error {
	data, err := json.MarshalIndent(f.State(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".preferences-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)

		return fmt.Errorf("failed to write preferences: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("failed to close preferences: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("failed to replace preferences: %w", err)
	}

	return nil
}
