// ABOUTME: TUI mode configuration and injected dependencies
// ABOUTME: Defines input parameters and collaborators for running the TUI

package tui

import (
	"time"

	"go.uber.org/zap"

	"playlist-browser/config"
	"playlist-browser/filter"
	"playlist-browser/library"
)

// Options contains configuration for running the TUI
type Options struct {
	Config     config.Config // Loaded configuration (layout and scroll tuning, saved on quit)
	ConfigPath string        // Where the configuration is saved on quit
	ExportPath string        // M3U8 file the filtered list is exported to (empty disables export)
}

// Dependencies holds all external dependencies for the TUI
// This allows for clean dependency injection and easy testing
type Dependencies struct {
	Store  *library.Store
	Engine *filter.Engine
	Reload func() ([]*library.Track, error) // Rereads the library after the manifest changed
	Logger *zap.Logger
	Now    func() time.Time
}
