// ABOUTME: List mode implementation for non-interactive filtering
// ABOUTME: Applies command-line filters on top of saved preferences and prints a track table

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"playlist-browser/filter"
	"playlist-browser/library"
	"playlist-browser/prefs"
)

// ListOptions contains the list mode flags
type ListOptions struct {
	Filters    []filterArg // Replace the saved filter selection when non-empty
	Mode       filter.Mode // Empty keeps the saved mode
	Search     string      // Empty keeps the saved query
	ExportPath string
}

// RunList prints the filtered tracks
// Saved preferences seed an in-memory store, so command-line filters never overwrite them.
func RunList(app *App, opts ListOptions, w io.Writer) error {
	saved := prefs.State{}

	store, err := openPrefs(app.Config.Prefs)
	if err != nil {
		app.Log.Warn("ignoring saved preferences", zap.Error(err))
	} else {
		saved = store.State()

		if err := store.Close(); err != nil {
			app.Log.Warn("failed to close preferences", zap.Error(err))
		}
	}

	engine := newEngine(app.Store, prefs.NewMemory(saved), app.Config, app.Log)

	if len(opts.Filters) > 0 {
		engine.ClearAllFilters()

		for _, f := range opts.Filters {
			engine.AddFilter(f.Category, f.Value)
		}
	}

	if opts.Mode != "" {
		engine.SetFilterCombinationMode(opts.Mode)
	}

	if opts.Search != "" {
		engine.SetSearchQuery(opts.Search)
	}

	tracks := engine.FilteredTracks()

	if err := printTracks(w, tracks); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\n%d of %d tracks | %s\n", len(tracks), app.Store.Len(), describeFilters(engine)); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if opts.ExportPath != "" {
		if err := library.WritePlaylist(opts.ExportPath, tracks); err != nil {
			return fmt.Errorf("failed to export playlist: %w", err)
		}

		if _, err := fmt.Fprintf(w, "Wrote playlist to: %s\n", opts.ExportPath); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	return nil
}

// printTracks writes tracks as an aligned table
func printTracks(w io.Writer, tracks []*library.Track) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, "#\tFav\tArtist\tTitle\tAlbum\tYear\tTuning\tGenre\tTime"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if _, err := fmt.Fprintln(tw, "---\t---\t------\t-----\t-----\t----\t------\t-----\t----"); err != nil {
		return fmt.Errorf("failed to write separator: %w", err)
	}

	for i, track := range tracks {
		fav := ""
		if track.Favorite {
			fav = "*"
		}

		year := ""
		if track.Year > 0 {
			year = strconv.Itoa(track.Year)
		}

		if _, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			fav,
			truncate(track.Artist, 20),
			truncate(track.Title, 30),
			truncate(track.Album, 20),
			year,
			truncate(track.Tuning, 10),
			truncate(strings.Join(track.Genre, ", "), 20),
			track.DurationLabel(),
		); err != nil {
			return fmt.Errorf("failed to write track %d: %w", i+1, err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}

// describeFilters summarizes the active selection, e.g. "AND | genre=Ambient,Folk | search: piano"
func describeFilters(engine *filter.Engine) string {
	parts := []string{string(engine.CombinationMode())}

	active := engine.ActiveFilters()
	for _, category := range engine.ActiveCategories() {
		parts = append(parts, category+"="+strings.Join(active[category], ","))
	}

	if q := engine.SearchQuery(); q != "" {
		parts = append(parts, "search: "+q)
	}

	if len(parts) == 1 {
		parts = append(parts, "no filters")
	}

	return strings.Join(parts, " | ")
}
