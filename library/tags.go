// ABOUTME: Reads track metadata directly from audio file tags
// ABOUTME: Maps ID3/Vorbis/MP4 tags onto the raw track shape used by normalization

package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
)

// Raw tag names that carry values the standard accessors do not expose
var (
	bpmTagNames    = []string{"BPM", "TBPM", "bpm", "tempo", "TEMPO"}
	moodTagNames   = []string{"MOOD", "TMOO", "mood"}
	tuningTagNames = []string{"TUNING", "tuning"}
	keyTagNames    = []string{"TKEY", "INITIALKEY", "initialkey", "KEY"}
)

// readTags reads the tags of one playlist entry
// The trackPath can be absolute or relative. Relative paths are resolved against
// baseDir (typically the playlist's directory).
func readTags(trackPath string, baseDir string) (rawTrack, error) {
	fullPath := trackPath
	if !filepath.IsAbs(trackPath) && baseDir != "" {
		fullPath = filepath.Join(baseDir, trackPath)
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return rawTrack{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return rawTrack{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	return tagsToRaw(metadata, trackPath), nil
}

// tagsToRaw copies tag values into a rawTrack
func tagsToRaw(metadata tag.Metadata, trackPath string) rawTrack {
	title := metadata.Title()
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(trackPath), filepath.Ext(trackPath))
	}

	raw := rawTrack{
		Title:  title,
		Artist: metadata.Artist(),
		Album:  metadata.Album(),
		Year:   flexNumber(metadata.Year()),
		Genre:  splitList(metadata.Genre()),
		Path:   trackPath,
	}

	tags := metadata.Raw()

	raw.BPM = flexNumber(rawNumber(tags, bpmTagNames))
	raw.Mood = splitList(rawString(tags, moodTagNames))
	raw.Tuning = rawString(tags, tuningTagNames)

	// DJ software stores the key in comments ("8A - Energy 6"); prefer a dedicated key tag
	raw.Key = rawString(tags, keyTagNames)
	if raw.Key == "" {
		raw.Key = extractKey(metadata.Comment())
	}

	return raw
}

// rawString returns the first non-empty string value among names
func rawString(tags map[string]interface{}, names []string) string {
	for _, name := range names {
		val, ok := tags[name]
		if !ok {
			continue
		}

		switch v := val.(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case *tag.Comm:
			if s := strings.TrimSpace(v.Text); s != "" {
				return s
			}
		}
	}

	return ""
}

// rawNumber returns the first positive numeric value among names
func rawNumber(tags map[string]interface{}, names []string) float64 {
	for _, name := range names {
		val, ok := tags[name]
		if !ok {
			continue
		}

		var n float64

		switch v := val.(type) {
		case string:
			n, _ = strconv.ParseFloat(strings.TrimSpace(v), 64)
		case int:
			n = float64(v)
		case float64:
			n = v
		}

		if n > 0 {
			return n
		}
	}

	return 0
}
