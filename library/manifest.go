// ABOUTME: Reads the static JSON track manifest into normalized tracks
// ABOUTME: Tolerates scalar-or-array list fields and numbers encoded as strings

package library

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// StringList decodes from a JSON string, an array of scalars, or null
type StringList []string

// UnmarshalJSON implements json.Unmarshaler
func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = splitList(single)

		return nil
	}

	var many []any
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or array: %w", err)
	}

	out := make([]string, 0, len(many))
	for _, v := range many {
		switch x := v.(type) {
		case string:
			out = append(out, x)
		case float64:
			out = append(out, strconv.FormatFloat(x, 'f', -1, 64))
		case bool:
			out = append(out, strconv.FormatBool(x))
		}
	}

	*l = out

	return nil
}

// flexNumber decodes from a JSON number, a numeric string, or null (zero)
type flexNumber float64

// UnmarshalJSON implements json.Unmarshaler
func (n *flexNumber) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = flexNumber(f)

		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected number: %w", err)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		*n = 0

		return nil
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*n = flexNumber(f)

		return nil
	}

	// Dates like "1998-04-01" still carry a usable year
	*n = flexNumber(parseYear(s))

	return nil
}

// flexString decodes from a JSON string or number
type flexString string

// UnmarshalJSON implements json.Unmarshaler
func (s *flexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)

		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}

	*s = flexString(num.String())

	return nil
}

// manifestObject is the {"tracks": [...]} manifest form
type manifestObject struct {
	Tracks []rawTrack `json:"tracks"`
}

// ParseManifest decodes manifest bytes into normalized tracks
// Accepts either a bare array of tracks or an object with a "tracks" array.
// Tracks repeating an earlier id are dropped.
func ParseManifest(data []byte, now time.Time, log *zap.Logger) ([]*Track, error) {
	var raws []rawTrack

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("failed to parse manifest: %w", err)
		}
	} else {
		var obj manifestObject
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, fmt.Errorf("failed to parse manifest: %w", err)
		}

		raws = obj.Tracks
	}

	tracks := make([]*Track, 0, len(raws))
	for _, raw := range raws {
		tracks = append(tracks, normalizeTrack(raw, now))
	}

	return dedupe(tracks, log), nil
}

// LoadManifest reads and parses a manifest file
func LoadManifest(path string, now time.Time, log *zap.Logger) ([]*Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	tracks, err := ParseManifest(data, now, log)
	if err != nil {
		return nil, err
	}

	log.Debug("manifest loaded", zap.String("path", path), zap.Int("tracks", len(tracks)))

	return tracks, nil
}

// dedupe keeps the first track for each id
func dedupe(tracks []*Track, log *zap.Logger) []*Track {
	seen := make(map[string]bool, len(tracks))
	out := tracks[:0]

	for _, t := range tracks {
		if seen[t.ID] {
			log.Warn("dropping track with duplicate id", zap.String("id", t.ID), zap.String("title", t.Title))

			continue
		}

		seen[t.ID] = true
		out = append(out, t)
	}

	return out
}
