// ABOUTME: Watches the track manifest for changes on disk
// ABOUTME: Bridges fsnotify events into Bubble Tea messages with a short debounce

package tui

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// manifestDebounce collapses the burst of events one save produces
const manifestDebounce = 150 * time.Millisecond

// watchManifest signals on the returned channel after the manifest is written, created or renamed
// The directory is watched rather than the file so editors that replace the file are seen.
// The channel holds at most one pending signal and is closed when stop is called.
func watchManifest(path string, debounce time.Duration, log *zap.Logger) (<-chan struct{}, func() error, error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		_ = watcher.Close()

		return nil, nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	changes := make(chan struct{}, 1)

	go func() {
		defer close(changes)

		var fire <-chan time.Time

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(event.Name) != target {
					continue
				}

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					fire = time.After(debounce)
				}

			case <-fire:
				fire = nil

				select {
				case changes <- struct{}{}:
				default: // A reload is already pending
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}

				log.Warn("manifest watcher error", zap.Error(err))
			}
		}
	}()

	return changes, watcher.Close, nil
}

// waitForChange waits for the next manifest change
// Returns nil when watching is disabled so no command is queued.
func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}

	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}

		return manifestChangedMsg{}
	}
}
