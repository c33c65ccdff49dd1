// ABOUTME: Tests for list mode
// ABOUTME: Runs RunList against an in-memory library and checks the table, summary and export

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"playlist-browser/config"
	"playlist-browser/filter"
	"playlist-browser/library"
	"playlist-browser/prefs"
)

// createTestApp builds an app over a small library with saved preferences in a JSON file
func createTestApp(t *testing.T, saved prefs.State) *App {
	t.Helper()

	tracks := []*library.Track{
		{ID: "1", Title: "Piano Rain", Artist: "Ana", Genre: []string{"Ambient"}, Mood: []string{"calm"}, Path: "a/1.mp3"},
		{ID: "2", Title: "Grid", Artist: "Bo", Genre: []string{"Electronic", "Folk"}, Mood: []string{"dark"}, Year: 2019, Path: "b/2.mp3"},
		{ID: "3", Title: "Hollow", Artist: "Cy", Genre: []string{"Folk"}, Mood: []string{"calm"}, Path: "c/3.mp3"},
	}

	cfg := config.DefaultConfig()
	cfg.Prefs.Path = filepath.Join(t.TempDir(), "preferences.json")

	store, err := prefs.OpenFile(cfg.Prefs.Path)
	if err != nil {
		t.Fatalf("Failed to open prefs: %v", err)
	}

	if saved.FilterStates != nil {
		if err := store.UpdateFilterStates(saved.FilterStates); err != nil {
			t.Fatalf("Failed to seed filters: %v", err)
		}
	}

	if saved.SearchQuery != "" {
		if err := store.UpdateSearchQuery(saved.SearchQuery); err != nil {
			t.Fatalf("Failed to seed search: %v", err)
		}
	}

	return &App{
		Config: cfg,
		Log:    zap.NewNop(),
		Store:  library.NewStore(tracks),
	}
}

func TestRunListAllTracks(t *testing.T) {
	app := createTestApp(t, prefs.State{})

	var out bytes.Buffer
	if err := RunList(app, ListOptions{}, &out); err != nil {
		t.Fatalf("RunList failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{"Artist", "Piano Rain", "Grid", "Hollow", "2019", "3 of 3 tracks | AND | no filters"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, text)
		}
	}
}

func TestRunListFlagsReplaceSavedFilters(t *testing.T) {
	app := createTestApp(t, prefs.State{FilterStates: map[string][]string{"genre": {"Electronic"}}})

	var out bytes.Buffer

	err := RunList(app, ListOptions{
		Filters: []filterArg{{"genre", "Folk"}, {"mood", "calm"}},
	}, &out)
	if err != nil {
		t.Fatalf("RunList failed: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Hollow") || strings.Contains(text, "Grid") {
		t.Errorf("Expected only Hollow (Folk AND calm):\n%s", text)
	}

	if !strings.Contains(text, "1 of 3 tracks | AND | genre=Folk | mood=calm") {
		t.Errorf("Unexpected summary:\n%s", text)
	}

	// The saved selection is left untouched
	store, err := prefs.OpenFile(app.Config.Prefs.Path)
	if err != nil {
		t.Fatalf("Failed to reopen prefs: %v", err)
	}

	if got := store.FilterStates()["genre"]; len(got) != 1 || got[0] != "Electronic" {
		t.Errorf("Expected saved genre filter kept, got %v", store.FilterStates())
	}
}

func TestRunListUsesSavedState(t *testing.T) {
	app := createTestApp(t, prefs.State{
		FilterStates: map[string][]string{"genre": {"Folk"}},
		SearchQuery:  "grid",
	})

	var out bytes.Buffer
	if err := RunList(app, ListOptions{}, &out); err != nil {
		t.Fatalf("RunList failed: %v", err)
	}

	if !strings.Contains(out.String(), "1 of 3 tracks | AND | genre=Folk | search: grid") {
		t.Errorf("Unexpected output:\n%s", out.String())
	}
}

func TestRunListModeAndExport(t *testing.T) {
	app := createTestApp(t, prefs.State{})
	exportPath := filepath.Join(t.TempDir(), "out.m3u8")

	var out bytes.Buffer

	err := RunList(app, ListOptions{
		Filters:    []filterArg{{"genre", "Ambient"}, {"mood", "dark"}},
		Mode:       filter.ModeOr,
		ExportPath: exportPath,
	}, &out)
	if err != nil {
		t.Fatalf("RunList failed: %v", err)
	}

	if !strings.Contains(out.String(), "2 of 3 tracks | OR") {
		t.Errorf("Expected OR to match Piano Rain and Grid:\n%s", out.String())
	}

	entries, err := library.ReadPlaylist(exportPath)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}

	if len(entries) != 2 || entries[0] != "a/1.mp3" || entries[1] != "b/2.mp3" {
		t.Errorf("Unexpected export entries %v", entries)
	}
}

func TestRunListIgnoresBrokenPrefs(t *testing.T) {
	app := createTestApp(t, prefs.State{})
	app.Config.Prefs.Backend = "redis"

	var out bytes.Buffer
	if err := RunList(app, ListOptions{}, &out); err != nil {
		t.Fatalf("RunList failed: %v", err)
	}

	if !strings.Contains(out.String(), "3 of 3 tracks") {
		t.Errorf("Expected unfiltered output:\n%s", out.String())
	}
}
