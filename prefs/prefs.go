// ABOUTME: Preference store holding active filter selections, search text and combination mode
// ABOUTME: Defines the persisted state shape and the in-memory backend the other backends build on

// Package prefs persists the filter state between sessions.
//
// Three backends share one in-memory view of the state: Memory keeps it only in
// process, FileStore mirrors it to a JSON file and SQLiteStore to a key/value
// table. Every write is best effort; callers log failures and carry on.
package prefs

import (
	"fmt"
	"sort"
	"sync"
)

// Backend names accepted by Open
const (
	BackendMemory = "memory"
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// State is the persisted preference document
// Categories mapped to empty value lists are treated as absent when restored.
type State struct {
	FilterStates          map[string][]string `json:"filterStates"`
	SearchQuery           string              `json:"searchQuery"`
	FilterCombinationMode string              `json:"filterCombinationMode,omitempty"`
}

// Store is a preference backend
type Store interface {
	FilterStates() map[string][]string
	UpdateFilterStates(states map[string][]string) error
	SearchQuery() string
	UpdateSearchQuery(query string) error
	CombinationMode() string
	UpdateCombinationMode(mode string) error
	State() State
	Close() error
}

// Open returns the backend named by backend, storing at path
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemory(State{}), nil
	case BackendJSON, "":
		store, err := OpenFile(path)
		if err != nil {
			return nil, err
		}

		return store, nil
	case BackendSQLite:
		store, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}

		return store, nil
	default:
		return nil, fmt.Errorf("unknown preference backend %q", backend)
	}
}

// Memory keeps preferences in process only
type Memory struct {
	mu    sync.RWMutex
	state State
}

// NewMemory creates a memory store seeded with state
func NewMemory(seed State) *Memory {
	m := &Memory{}
	m.set(seed)

	return m
}

// FilterStates returns a copy of the saved selections, or nil if none were ever saved
func (m *Memory) FilterStates() map[string][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return copyStates(m.state.FilterStates)
}

// UpdateFilterStates replaces the saved selections
func (m *Memory) UpdateFilterStates(states map[string][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.FilterStates = copyStates(states)
	if m.state.FilterStates == nil {
		m.state.FilterStates = map[string][]string{}
	}

	return nil
}

// SearchQuery returns the saved search text
func (m *Memory) SearchQuery() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.state.SearchQuery
}

// UpdateSearchQuery replaces the saved search text
func (m *Memory) UpdateSearchQuery(query string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.SearchQuery = query

	return nil
}

// CombinationMode returns the saved combination mode, empty if never saved
func (m *Memory) CombinationMode() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.state.FilterCombinationMode
}

// UpdateCombinationMode replaces the saved combination mode
func (m *Memory) UpdateCombinationMode(mode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.FilterCombinationMode = mode

	return nil
}

// State returns a copy of the whole document
func (m *Memory) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.state
	s.FilterStates = copyStates(m.state.FilterStates)

	return s
}

// Close is a no-op
func (m *Memory) Close() error {
	return nil
}

func (m *Memory) set(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = s
	m.state.FilterStates = copyStates(s.FilterStates)
}

// copyStates deep-copies a selection map with each value list sorted
func copyStates(states map[string][]string) map[string][]string {
	if states == nil {
		return nil
	}

	out := make(map[string][]string, len(states))
	for category, values := range states {
		vs := append([]string(nil), values...)
		sort.Strings(vs)
		out[category] = vs
	}

	return out
}
