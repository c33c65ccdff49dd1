// ABOUTME: Shared initialization code for list and TUI modes
// ABOUTME: Provides config and logger setup, library loading and engine construction

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"go.uber.org/zap"

	"playlist-browser/config"
	"playlist-browser/filter"
	"playlist-browser/library"
	"playlist-browser/logger"
	"playlist-browser/prefs"
)

const debugLogFile = "playlist-browser-debug.log"

// RunOptions contains command-line options shared by all modes
type RunOptions struct {
	ConfigPath string
	Manifest   string // Overrides library.manifest
	Playlist   string // Overrides library.playlist
	Debug      bool
	Stderr     bool // Also log to stderr
}

// App holds the loaded configuration, logger and track store
type App struct {
	Config     config.Config
	ConfigPath string
	Log        *zap.Logger
	Store      *library.Store
}

// InitializeApp loads config, builds the logger and reads the library
func InitializeApp(opts RunOptions) (*App, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.GetConfigPath()
	}

	cfg, cfgErr := config.LoadConfig(configPath)

	if opts.Manifest != "" {
		cfg.Library.Manifest = opts.Manifest
	}

	if opts.Playlist != "" {
		cfg.Library.Playlist = opts.Playlist
	}

	log, err := newLogger(cfg.Log, opts.Debug, opts.Stderr)
	if err != nil {
		return nil, err
	}

	// A broken config file is not fatal, defaults are used instead
	if cfgErr != nil {
		log.Warn("using default config", zap.String("path", configPath), zap.Error(cfgErr))
	}

	tracks, err := loadLibrary(cfg.Library, time.Now(), log)
	if err != nil {
		_ = log.Sync()

		return nil, err
	}

	return &App{
		Config:     cfg,
		ConfigPath: configPath,
		Log:        log,
		Store:      library.NewStore(tracks),
	}, nil
}

// Close flushes buffered log entries
func (a *App) Close() {
	_ = a.Log.Sync()
}

// newLogger builds the application logger
// Debug mode writes everything to the debug log file in the working directory.
func newLogger(cfg config.LogConfig, debug, stderr bool) (*zap.Logger, error) {
	lc := logger.Config{
		Level:      cfg.Level,
		OutputPath: cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Stderr:     stderr,
	}

	if debug {
		lc.Level = "debug"
		lc.OutputPath = debugLogFile
	}

	log, err := logger.New(lc)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return log, nil
}

// loadLibrary reads the manifest and appends tracks read from the playlist's audio tags
// A missing manifest is tolerated when a playlist is configured.
func loadLibrary(cfg config.LibraryConfig, now time.Time, log *zap.Logger) ([]*library.Track, error) {
	var tracks []*library.Track

	if cfg.Manifest != "" {
		manifestTracks, err := library.LoadManifest(cfg.Manifest, now, log)

		switch {
		case err == nil:
			tracks = manifestTracks
		case cfg.Playlist != "" && errors.Is(err, fs.ErrNotExist):
			log.Info("no manifest, using playlist only", zap.String("path", cfg.Manifest))
		default:
			return nil, err
		}
	}

	if cfg.Playlist != "" {
		tagged, err := library.LoadPlaylist(cfg.Playlist, now, log)
		if err != nil {
			return nil, fmt.Errorf("failed to load playlist: %w", err)
		}

		tracks = mergeTracks(tracks, tagged)
	}

	if len(tracks) == 0 {
		log.Warn("library is empty", zap.String("manifest", cfg.Manifest), zap.String("playlist", cfg.Playlist))
	}

	return tracks, nil
}

// mergeTracks appends tagged tracks whose id or audio path the manifest does not already have
func mergeTracks(manifest, tagged []*library.Track) []*library.Track {
	ids := make(map[string]struct{}, len(manifest))
	paths := make(map[string]struct{}, len(manifest))

	for _, t := range manifest {
		ids[t.ID] = struct{}{}

		if t.Path != "" {
			paths[t.Path] = struct{}{}
		}
	}

	merged := manifest

	for _, t := range tagged {
		if _, ok := ids[t.ID]; ok {
			continue
		}

		if _, ok := paths[t.Path]; ok {
			continue
		}

		ids[t.ID] = struct{}{}
		merged = append(merged, t)
	}

	return merged
}

// openPrefs opens the configured preference backend
func openPrefs(cfg config.PrefsConfig) (prefs.Store, error) {
	store, err := prefs.Open(cfg.Backend, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences: %w", err)
	}

	return store, nil
}

// newEngine builds a filter engine over store using the configured tuning
func newEngine(store *library.Store, p filter.Preferences, cfg config.Config, log *zap.Logger) *filter.Engine {
	return filter.NewEngine(store, p, filter.Options{
		Logger:          log,
		DefaultMode:     filter.Mode(cfg.Filter.DefaultMode),
		CacheMaxEntries: cfg.Filter.CacheMaxEntries,
		CacheRetain:     cfg.Filter.CacheRetain,
	})
}

// parseMode validates a -mode flag value; empty keeps the saved mode
func parseMode(s string) (filter.Mode, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}

	mode := filter.Mode(s)
	if !mode.Valid() {
		return "", fmt.Errorf("unknown combination mode %q (want AND or OR)", s)
	}

	return mode, nil
}

// filterArg is one category=value pair from the command line
type filterArg struct {
	Category string
	Value    string
}

// filterFlags collects repeated -filter flags
type filterFlags []filterArg

func (f *filterFlags) String() string {
	parts := make([]string, len(*f))
	for i, arg := range *f {
		parts[i] = arg.Category + "=" + arg.Value
	}

	return strings.Join(parts, ",")
}

// Set parses category=value, rejecting unknown categories
func (f *filterFlags) Set(s string) error {
	category, value, ok := strings.Cut(s, "=")
	category = strings.ToLower(strings.TrimSpace(category))
	value = strings.TrimSpace(value)

	if !ok || category == "" || value == "" {
		return fmt.Errorf("expected category=value, got %q", s)
	}

	if _, err := library.LookupCategory(category); err != nil {
		return err
	}

	*f = append(*f, filterArg{Category: category, Value: value})

	return nil
}

// truncate shortens a string to maxLen runes, adding "..." if needed
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return string(runes[:max(0, maxLen)])
	}

	return string(runes[:maxLen-3]) + "..."
}
