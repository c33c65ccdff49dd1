// ABOUTME: Tests for shared initialization helpers
// ABOUTME: Covers flag parsing, library loading and merging of manifest and playlist tracks

package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"playlist-browser/config"
	"playlist-browser/filter"
	"playlist-browser/library"
)

var loadTime = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func TestFilterFlagsSet(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    filterArg
		wantErr bool
	}{
		{"simple", "genre=Ambient", filterArg{"genre", "Ambient"}, false},
		{"spaces and case", " Mood = calm ", filterArg{"mood", "calm"}, false},
		{"value with equals", "tags=a=b", filterArg{"tags", "a=b"}, false},
		{"missing value", "genre=", filterArg{}, true},
		{"missing separator", "genre", filterArg{}, true},
		{"unknown category", "color=blue", filterArg{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var flags filterFlags

			err := flags.Set(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}

			if tt.wantErr {
				if len(flags) != 0 {
					t.Errorf("Expected nothing appended on error, got %v", flags)
				}

				return
			}

			if len(flags) != 1 || flags[0] != tt.want {
				t.Errorf("Set(%q) = %v, want %v", tt.arg, flags, tt.want)
			}
		})
	}
}

func TestFilterFlagsUnknownCategoryError(t *testing.T) {
	var flags filterFlags

	if err := flags.Set("color=blue"); !errors.Is(err, library.ErrUnknownCategory) {
		t.Errorf("Expected ErrUnknownCategory, got %v", err)
	}
}

func TestFilterFlagsString(t *testing.T) {
	flags := filterFlags{{"genre", "Ambient"}, {"mood", "calm"}}

	if got := flags.String(); got != "genre=Ambient,mood=calm" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    filter.Mode
		wantErr bool
	}{
		{"", "", false},
		{"and", filter.ModeAnd, false},
		{" OR ", filter.ModeOr, false},
		{"xor", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("parseMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMergeTracks(t *testing.T) {
	manifest := []*library.Track{
		{ID: "a", Title: "Manifest A", Path: "music/a.mp3"},
		{ID: "b", Title: "Manifest B"},
	}
	tagged := []*library.Track{
		{ID: "x", Title: "Tagged A", Path: "music/a.mp3"}, // same file as manifest a
		{ID: "b", Title: "Tagged B", Path: "music/b.mp3"}, // same id as manifest b
		{ID: "c", Title: "Tagged C", Path: "music/c.mp3"},
	}

	merged := mergeTracks(manifest, tagged)

	want := []string{"a", "b", "c"}
	if len(merged) != len(want) {
		t.Fatalf("Expected %d tracks, got %d", len(want), len(merged))
	}

	for i, id := range want {
		if merged[i].ID != id {
			t.Errorf("Track %d: expected id %s, got %s", i, id, merged[i].ID)
		}
	}

	if merged[0].Title != "Manifest A" {
		t.Errorf("Expected manifest track to win, got %q", merged[0].Title)
	}
}

func TestLoadLibrary(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "tracks.json")

	if err := os.WriteFile(manifest, []byte(`[{"id": "a", "title": "One", "artist": "X"}]`), 0o600); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}

	playlistPath := filepath.Join(dir, "list.m3u8")
	if err := os.WriteFile(playlistPath, []byte("#EXTM3U\nmissing.mp3\n"), 0o600); err != nil {
		t.Fatalf("Failed to write playlist: %v", err)
	}

	tests := []struct {
		name      string
		cfg       config.LibraryConfig
		wantCount int
		wantErr   bool
	}{
		{"manifest only", config.LibraryConfig{Manifest: manifest}, 1, false},
		{"manifest and playlist", config.LibraryConfig{Manifest: manifest, Playlist: playlistPath}, 1, false},
		{"missing manifest with playlist", config.LibraryConfig{Manifest: filepath.Join(dir, "none.json"), Playlist: playlistPath}, 0, false},
		{"missing manifest alone", config.LibraryConfig{Manifest: filepath.Join(dir, "none.json")}, 0, true},
		{"missing playlist", config.LibraryConfig{Manifest: manifest, Playlist: filepath.Join(dir, "none.m3u8")}, 0, true},
		{"nothing configured", config.LibraryConfig{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracks, err := loadLibrary(tt.cfg, loadTime, zap.NewNop())
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadLibrary error = %v, wantErr %v", err, tt.wantErr)
			}

			if len(tracks) != tt.wantCount {
				t.Errorf("Expected %d tracks, got %d", tt.wantCount, len(tracks))
			}
		})
	}
}

func TestInitializeAppWithOverrides(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "tracks.json")

	if err := os.WriteFile(manifest, []byte(`[{"id": "a", "title": "One", "artist": "X"}, {"id": "b", "title": "Two", "artist": "Y"}]`), 0o600); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}

	configPath := filepath.Join(dir, "config.toml")
	cfg := config.DefaultConfig()
	cfg.Log.Path = filepath.Join(dir, "app.log")
	cfg.Library.Manifest = filepath.Join(dir, "other.json")

	if err := config.SaveConfig(configPath, cfg); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	app, err := InitializeApp(RunOptions{ConfigPath: configPath, Manifest: manifest})
	if err != nil {
		t.Fatalf("InitializeApp failed: %v", err)
	}
	defer app.Close()

	if app.Config.Library.Manifest != manifest {
		t.Errorf("Expected manifest override, got %s", app.Config.Library.Manifest)
	}

	if app.Store.Len() != 2 {
		t.Errorf("Expected 2 tracks, got %d", app.Store.Len())
	}

	if app.ConfigPath != configPath {
		t.Errorf("Expected config path %s, got %s", configPath, app.ConfigPath)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"a longer title", 9, "a long..."},
		{"abc", 2, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := truncate(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
		})
	}
}
