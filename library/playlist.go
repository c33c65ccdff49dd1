// ABOUTME: Handles reading and writing M3U8 playlist files
// ABOUTME: Loads tracks for playlist entries in parallel and exports filtered tracks back to M3U8

// Package library is the track store: it ingests tracks from a JSON manifest or
// from the tags of audio files listed in an M3U8 playlist, normalizes them, and
// derives the filter categories the filtering engine selects on.
package library

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"playlist-browser/pool"
)

// ReadPlaylist reads an M3U8 playlist file and returns its entries
// Comments and blank lines are skipped
func ReadPlaylist(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open playlist: %w", err)
	}

	defer func() {
		_ = file.Close() // Explicitly ignore error for read-only file
	}()

	var entries []string

	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entries = append(entries, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading playlist: %w", err)
	}

	return entries, nil
}

// LoadPlaylist reads a playlist and builds a track from the tags of each entry
// Entries whose tags cannot be read are skipped and logged.
// Returned tracks keep playlist order.
func LoadPlaylist(path string, now time.Time, log *zap.Logger) ([]*Track, error) {
	entries, err := ReadPlaylist(path)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(path)
	results := make([]*Track, len(entries))

	var (
		mu      sync.Mutex
		skipped int
	)

	workers := pool.NewWorkerPool(0, len(entries))
	defer workers.Close()

	for i, entry := range entries {
		workers.Submit(func() {
			raw, err := readTags(entry, baseDir)
			if err != nil {
				log.Warn("skipping playlist entry", zap.String("entry", entry), zap.Error(err))

				mu.Lock()
				skipped++
				mu.Unlock()

				return
			}

			results[i] = normalizeTrack(raw, now)
		})
	}

	workers.Wait()

	tracks := make([]*Track, 0, len(results))
	for _, t := range results {
		if t != nil {
			tracks = append(tracks, t)
		}
	}

	log.Debug("playlist loaded",
		zap.String("path", path),
		zap.Int("tracks", len(tracks)),
		zap.Int("skipped", skipped))

	return dedupe(tracks, log), nil
}

// WritePlaylist writes the paths of tracks to an M3U8 playlist file
// Tracks without a path are skipped.
// Creates a backup (.bak) of the existing file before overwriting
func WritePlaylist(path string, tracks []*Track) (err error) {
	if _, statErr := os.Stat(path); statErr == nil {
		backupPath := path + ".bak"
		if err := os.Rename(path, backupPath); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close playlist file: %w", closeErr)
		}
	}()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString("#EXTM3U\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, track := range tracks {
		if track.Path == "" {
			continue
		}

		line := fmt.Sprintf("#EXTINF:%d,%s - %s\n%s\n", durationSeconds(track), track.Artist, track.Title, track.Path)
		if _, err := writer.WriteString(line); err != nil {
			return fmt.Errorf("failed to write track: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	return nil
}

// durationSeconds returns the EXTINF duration, -1 when unknown
func durationSeconds(t *Track) int {
	if t.Duration == nil {
		return -1
	}

	return int(*t.Duration + 0.5)
}
