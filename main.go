// ABOUTME: Entry point for playlist-browser application
// ABOUTME: Handles command-line parsing, profiling, and routing to list or TUI modes

// Package main provides the entry point for playlist-browser, a filterable terminal music library browser.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"go.uber.org/zap"

	"playlist-browser/library"
	"playlist-browser/tui"
)

func main() {
	os.Exit(run())
}

func run() int {
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile := flag.String("memprofile", "", "write memory profile to file")
	configPath := flag.String("config", "", "config file (default: ./playlist-browser.toml, then ~/.config/playlist-browser/config.toml)")
	manifest := flag.String("manifest", "", "JSON track manifest (overrides config)")
	playlistPath := flag.String("playlist", "", "M3U8 playlist whose audio files are read for tags (overrides config)")
	list := flag.Bool("list", false, "print the filtered tracks and exit instead of starting the TUI")
	mode := flag.String("mode", "", "how categories combine in -list mode: AND or OR")
	search := flag.String("search", "", "title/artist search in -list mode")
	export := flag.String("export", "", "write the filtered tracks to this M3U8 file")
	debug := flag.Bool("debug", false, "enable debug logging to "+debugLogFile)

	var filters filterFlags

	flag.Var(&filters, "filter", "category=value filter in -list mode (repeatable)")
	flag.Parse()

	if flag.NArg() != 0 {
		fmt.Println("Usage: playlist-browser [flags]")
		fmt.Println("Example: playlist-browser -manifest tracks.json -list -filter genre=Ambient -filter mood=calm")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()

		return 1
	}

	combination, err := parseMode(*mode)
	if err != nil {
		log.Printf("Invalid -mode: %v", err)

		return 1
	}

	if *cpuprofile != "" {
		stopCPUProfile := setupCPUProfile(*cpuprofile)
		defer stopCPUProfile()
	}

	if *memprofile != "" {
		defer writeMemoryProfile(*memprofile)
	}

	app, err := InitializeApp(RunOptions{
		ConfigPath: *configPath,
		Manifest:   *manifest,
		Playlist:   *playlistPath,
		Debug:      *debug,
		Stderr:     *list, // the TUI owns the terminal, so it only logs to file
	})
	if err != nil {
		log.Printf("Startup error: %v", err)

		return 1
	}
	defer app.Close()

	if *list {
		if err := RunList(app, ListOptions{
			Filters:    filters,
			Mode:       combination,
			Search:     *search,
			ExportPath: *export,
		}, os.Stdout); err != nil {
			log.Printf("List error: %v", err)

			return 1
		}

		return 0
	}

	if err := runTUI(app, *export); err != nil {
		log.Printf("TUI error: %v", err)

		return 1
	}

	return 0
}

// runTUI opens the saved preferences and starts the interactive browser
func runTUI(app *App, exportPath string) error {
	store, err := openPrefs(app.Config.Prefs)
	if err != nil {
		return err
	}

	defer func() {
		if err := store.Close(); err != nil {
			app.Log.Warn("failed to close preferences", zap.Error(err))
		}
	}()

	engine := newEngine(app.Store, store, app.Config, app.Log)

	reload := func() ([]*library.Track, error) {
		return loadLibrary(app.Config.Library, time.Now(), app.Log)
	}

	return tui.Run(
		tui.Options{
			Config:     app.Config,
			ConfigPath: app.ConfigPath,
			ExportPath: exportPath,
		},
		tui.Dependencies{
			Store:  app.Store,
			Engine: engine,
			Reload: reload,
			Logger: app.Log,
		},
	)
}

// setupCPUProfile starts CPU profiling, returns cleanup function
func setupCPUProfile(filename string) func() {
	f, err := os.Create(filename)
	if err != nil {
		log.Fatalf("could not create CPU profile: %v", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		log.Fatalf("could not start CPU profile: %v", err)
	}

	return func() {
		pprof.StopCPUProfile()

		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close CPU profile: %v", err)
		}
	}
}

// writeMemoryProfile writes memory profile to file
func writeMemoryProfile(filename string) {
	f, err := os.Create(filename)
	if err != nil {
		log.Printf("could not create memory profile: %v", err)

		return
	}

	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close memory profile: %v", err)
		}
	}()

	runtime.GC()

	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Printf("could not write memory profile: %v", err)
	}
}
