// ABOUTME: Configuration management for library sources, filtering, scrolling and logging
// ABOUTME: Handles loading/saving TOML config files with fallback to defaults

// Package config loads and saves the playlist-browser TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Layout names for the track list
const (
	LayoutCompact  = "compact"
	LayoutDetailed = "detailed"
)

// Preference store backends
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds all tunable application settings
type Config struct {
	Library LibraryConfig `toml:"library"`
	Filter  FilterConfig  `toml:"filter"`
	Scroll  ScrollConfig  `toml:"scroll"`
	Prefs   PrefsConfig   `toml:"prefs"`
	Log     LogConfig     `toml:"log"`
}

// LibraryConfig points at the track sources
type LibraryConfig struct {
	Manifest string `toml:"manifest"` // JSON track manifest
	Playlist string `toml:"playlist"` // Optional M3U8 playlist whose files are read for tags
	Watch    bool   `toml:"watch"`    // Reload the manifest when it changes on disk
}

// FilterConfig tunes the filtering engine
type FilterConfig struct {
	DefaultMode     string `toml:"default_mode"` // "AND" or "OR"
	CacheMaxEntries int    `toml:"cache_max_entries"`
	CacheRetain     int    `toml:"cache_retain"`
}

// ScrollConfig tunes the virtual scroll renderer
type ScrollConfig struct {
	Layout     string `toml:"layout"`      // "compact" (1 row per track) or "detailed" (2 rows)
	BufferSize int    `toml:"buffer_size"` // Items rendered outside the viewport
	FrameMS    int    `toml:"frame_ms"`    // Scroll coalescing interval
}

// PrefsConfig selects where filter preferences persist
type PrefsConfig struct {
	Backend string `toml:"backend"` // "json" or "sqlite"
	Path    string `toml:"path"`
}

// LogConfig configures the rotating log file
type LogConfig struct {
	Level      string `toml:"level"`
	Path       string `toml:"path"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// GetConfigPath returns the default config file path
// First tries current directory, then falls back to ~/.config/playlist-browser/config.toml
func GetConfigPath() string {
	if _, err := os.Stat("./playlist-browser.toml"); err == nil {
		return "./playlist-browser.toml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./playlist-browser.toml"
	}

	return filepath.Join(home, ".config", "playlist-browser", "config.toml")
}

// LoadConfig loads configuration from a TOML file
// If the file doesn't exist or fails to load, returns default config
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}

		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	// Decode on top of defaults so omitted keys keep their default value
	config := DefaultConfig()
	if err := toml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return Normalize(config), nil
}

// SaveConfig saves configuration to a TOML file
func SaveConfig(path string, config Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", err)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(Normalize(config)); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	dataDir := defaultDataDir()

	return Config{
		Library: LibraryConfig{
			Manifest: "tracks.json",
			Watch:    true,
		},
		Filter: FilterConfig{
			DefaultMode:     "AND",
			CacheMaxEntries: 100,
			CacheRetain:     50,
		},
		Scroll: ScrollConfig{
			Layout:     LayoutCompact,
			BufferSize: 5,
			FrameMS:    16,
		},
		Prefs: PrefsConfig{
			Backend: BackendJSON,
			Path:    filepath.Join(dataDir, "preferences.json"),
		},
		Log: LogConfig{
			Level:      "warn",
			Path:       filepath.Join(dataDir, "playlist-browser.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Normalize replaces missing or invalid values with their defaults
func Normalize(config Config) Config {
	defaults := DefaultConfig()

	config.Filter.DefaultMode = strings.ToUpper(strings.TrimSpace(config.Filter.DefaultMode))
	if config.Filter.DefaultMode != "AND" && config.Filter.DefaultMode != "OR" {
		config.Filter.DefaultMode = defaults.Filter.DefaultMode
	}

	if config.Filter.CacheMaxEntries < 1 {
		config.Filter.CacheMaxEntries = defaults.Filter.CacheMaxEntries
	}

	// Retain must leave room below the max, otherwise eviction never frees anything
	if config.Filter.CacheRetain < 0 || config.Filter.CacheRetain >= config.Filter.CacheMaxEntries {
		config.Filter.CacheRetain = config.Filter.CacheMaxEntries / 2
	}

	if config.Scroll.Layout != LayoutCompact && config.Scroll.Layout != LayoutDetailed {
		config.Scroll.Layout = defaults.Scroll.Layout
	}

	if config.Scroll.BufferSize < 0 {
		config.Scroll.BufferSize = defaults.Scroll.BufferSize
	}

	if config.Scroll.FrameMS < 1 {
		config.Scroll.FrameMS = defaults.Scroll.FrameMS
	}

	if config.Prefs.Backend != BackendJSON && config.Prefs.Backend != BackendSQLite {
		config.Prefs.Backend = defaults.Prefs.Backend
	}

	if config.Prefs.Path == "" {
		config.Prefs.Path = defaults.Prefs.Path
		if config.Prefs.Backend == BackendSQLite {
			config.Prefs.Path = strings.TrimSuffix(config.Prefs.Path, ".json") + ".sqlite3"
		}
	}

	if config.Log.Level == "" {
		config.Log.Level = defaults.Log.Level
	}

	return config
}

// ItemHeight returns the number of terminal rows a track occupies in the given layout
func ItemHeight(layout string) int {
	if layout == LayoutDetailed {
		return 2
	}

	return 1
}

// defaultDataDir returns ~/.local/share/playlist-browser, or the current directory
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".local", "share", "playlist-browser")
}
