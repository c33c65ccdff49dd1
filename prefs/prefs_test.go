// ABOUTME: Tests for the preference backends
// ABOUTME: Verifies round trips through memory, JSON file and sqlite stores

package prefs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMemoryStartsEmpty(t *testing.T) {
	m := NewMemory(State{})

	if m.FilterStates() != nil {
		t.Errorf("Expected nil filter states before any save, got %v", m.FilterStates())
	}

	if m.SearchQuery() != "" || m.CombinationMode() != "" {
		t.Errorf("Expected empty search and mode, got %q %q", m.SearchQuery(), m.CombinationMode())
	}
}

func TestMemoryCopiesOnReadAndWrite(t *testing.T) {
	m := NewMemory(State{})
	states := map[string][]string{"genre": {"Rock", "Jazz"}}

	if err := m.UpdateFilterStates(states); err != nil {
		t.Fatalf("UpdateFilterStates failed: %v", err)
	}

	states["genre"][0] = "Changed"

	got := m.FilterStates()
	if got["genre"][0] != "Jazz" || got["genre"][1] != "Rock" {
		t.Errorf("Expected stored copy with sorted values, got %v", got)
	}

	got["genre"] = nil
	if len(m.FilterStates()["genre"]) != 2 {
		t.Error("Expected read result to be a copy")
	}
}

func TestMemoryEmptyUpdateIsSaved(t *testing.T) {
	m := NewMemory(State{FilterStates: map[string][]string{"mood": {"calm"}}})

	if err := m.UpdateFilterStates(nil); err != nil {
		t.Fatalf("UpdateFilterStates failed: %v", err)
	}

	got := m.FilterStates()
	if got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil states after clearing, got %#v", got)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.json")

	store, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}

	if err := store.UpdateFilterStates(map[string][]string{"tuning": {"16-EDO"}}); err != nil {
		t.Fatalf("UpdateFilterStates failed: %v", err)
	}

	if err := store.UpdateSearchQuery("piano"); err != nil {
		t.Fatalf("UpdateSearchQuery failed: %v", err)
	}

	if err := store.UpdateCombinationMode("OR"); err != nil {
		t.Fatalf("UpdateCombinationMode failed: %v", err)
	}

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}

	if got := reopened.FilterStates()["tuning"]; len(got) != 1 || got[0] != "16-EDO" {
		t.Errorf("Expected tuning [16-EDO], got %v", got)
	}

	if reopened.SearchQuery() != "piano" {
		t.Errorf("Expected search piano, got %q", reopened.SearchQuery())
	}

	if reopened.CombinationMode() != "OR" {
		t.Errorf("Expected mode OR, got %q", reopened.CombinationMode())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}

	if len(entries) != 1 {
		t.Errorf("Expected temp files to be renamed away, found %d entries", len(entries))
	}
}

func TestFileStorePersistsEmptyObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")

	store, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}

	if err := store.UpdateFilterStates(map[string][]string{}); err != nil {
		t.Fatalf("UpdateFilterStates failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if !strings.Contains(string(data), `"filterStates": {}`) {
		t.Errorf("Expected explicit empty filterStates object, got %s", data)
	}
}

func TestFileStoreRestoresDocumentShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	doc := `{"filterStates": {"genre": ["Electronic"], "tuning": []}, "searchQuery": "piano", "filterCombinationMode": "AND"}`

	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	store, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}

	states := store.FilterStates()
	if len(states["genre"]) != 1 || states["genre"][0] != "Electronic" {
		t.Errorf("Expected genre [Electronic], got %v", states["genre"])
	}

	if len(states["tuning"]) != 0 {
		t.Errorf("Expected empty tuning list, got %v", states["tuning"])
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")

	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := OpenFile(path); err == nil {
		t.Error("Expected error for corrupt preferences")
	}
}

func TestFileStoreWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")

	store, err := OpenFile(filepath.Join(blocker, "preferences.json"))
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}

	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if err := store.UpdateSearchQuery("x"); err == nil {
		t.Error("Expected write error when the parent is a file")
	}

	if store.SearchQuery() != "x" {
		t.Error("Expected in-memory state to survive a failed write")
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.sqlite3")

	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}

	if store.FilterStates() != nil {
		t.Errorf("Expected nil filter states in a new database")
	}

	if err := store.UpdateFilterStates(map[string][]string{"mood": {"dark", "calm"}}); err != nil {
		t.Fatalf("UpdateFilterStates failed: %v", err)
	}

	if err := store.UpdateFilterStates(map[string][]string{"mood": {"calm"}}); err != nil {
		t.Fatalf("second UpdateFilterStates failed: %v", err)
	}

	if err := store.UpdateSearchQuery("rain"); err != nil {
		t.Fatalf("UpdateSearchQuery failed: %v", err)
	}

	if err := store.UpdateCombinationMode("OR"); err != nil {
		t.Fatalf("UpdateCombinationMode failed: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	if got := reopened.FilterStates()["mood"]; len(got) != 1 || got[0] != "calm" {
		t.Errorf("Expected mood [calm], got %v", got)
	}

	if reopened.SearchQuery() != "rain" || reopened.CombinationMode() != "OR" {
		t.Errorf("Expected rain/OR, got %q/%q", reopened.SearchQuery(), reopened.CombinationMode())
	}
}

func TestOpenBackends(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		backend string
		path    string
		wantErr bool
	}{
		{BackendMemory, "", false},
		{BackendJSON, filepath.Join(dir, "p.json"), false},
		{BackendSQLite, filepath.Join(dir, "p.sqlite3"), false},
		{"redis", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			store, err := Open(tt.backend, tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open(%q) error = %v, wantErr %v", tt.backend, err, tt.wantErr)
			}

			if store != nil {
				_ = store.Close()
			}
		})
	}
}
