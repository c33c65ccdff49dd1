// ABOUTME: Defines the Track record and its normalization from raw manifest or tag input
// ABOUTME: Sanitizes text, coerces list fields into sequences and assigns stable ids

package library

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// DateLayout is the format of DateAdded and LastPlayed
const DateLayout = "2006-01-02"

// Placeholders used when a track arrives without a title or artist
const (
	UntitledTrack = "Untitled"
	UnknownArtist = "Unknown Artist"
)

// trackNamespace seeds the name-based UUIDs given to tracks without an id
var trackNamespace = uuid.MustParse("6f0c1b2e-8d4a-5c3e-9b7f-2a1d4e6c8b90")

// Track represents one playable audio work
type Track struct {
	ID          string
	Title       string
	Artist      string
	Album       string   // Empty when the track has no album
	Year        int      // 0 when unknown
	BPM         float64  // 0 when unknown
	Key         string   // Musical key (e.g. "C minor", "8A")
	Tuning      string   // Tuning system (e.g. "12-TET", "16-EDO")
	Genre       []string // List fields are always sequences after normalization
	Mood        []string
	Tags        []string
	Instruments []string
	Duration    *float64 // Seconds, nil when unknown
	PlayCount   int
	Favorite    bool
	DateAdded   string  // YYYY-MM-DD
	LastPlayed  *string // YYYY-MM-DD, nil when never played
	Path        string  // Audio file location (may be empty for manifest-only tracks)
}

// String returns a formatted string representation of the track
func (t *Track) String() string {
	return fmt.Sprintf("%-30s - %s (%s)", t.Artist, t.Title, t.ID)
}

// DurationLabel formats the duration as m:ss, or "--:--" when unknown
func (t *Track) DurationLabel() string {
	if t.Duration == nil || *t.Duration < 0 {
		return "--:--"
	}

	total := int(*t.Duration + 0.5)

	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// rawTrack is the loosely typed shape a track arrives in before normalization
type rawTrack struct {
	ID          flexString  `json:"id"`
	Title       string      `json:"title"`
	Artist      string      `json:"artist"`
	Album       string      `json:"album"`
	Year        flexNumber  `json:"year"`
	BPM         flexNumber  `json:"bpm"`
	Key         string      `json:"key"`
	Tuning      string      `json:"tuning"`
	Genre       StringList  `json:"genre"`
	Mood        StringList  `json:"mood"`
	Tags        StringList  `json:"tags"`
	Instruments StringList  `json:"instruments"`
	Duration    *flexNumber `json:"duration"`
	PlayCount   flexNumber  `json:"playCount"`
	Favorite    bool        `json:"favorite"`
	DateAdded   string      `json:"dateAdded"`
	LastPlayed  *string     `json:"lastPlayed"`
	Path        string      `json:"path"`
}

// normalizeTrack turns raw input into a Track that satisfies the store invariants
func normalizeTrack(raw rawTrack, now time.Time) *Track {
	t := &Track{
		ID:          sanitize(string(raw.ID)),
		Title:       sanitize(raw.Title),
		Artist:      sanitize(raw.Artist),
		Album:       sanitize(raw.Album),
		Year:        int(raw.Year),
		BPM:         float64(raw.BPM),
		Key:         sanitize(raw.Key),
		Tuning:      sanitize(raw.Tuning),
		Genre:       normalizeList(raw.Genre),
		Mood:        normalizeList(raw.Mood),
		Tags:        normalizeList(raw.Tags),
		Instruments: normalizeList(raw.Instruments),
		PlayCount:   int(raw.PlayCount),
		Favorite:    raw.Favorite,
		DateAdded:   sanitize(raw.DateAdded),
		Path:        strings.TrimSpace(raw.Path),
	}

	if t.Title == "" {
		t.Title = UntitledTrack
	}

	if t.Artist == "" {
		t.Artist = UnknownArtist
	}

	if t.Year < 0 {
		t.Year = 0
	}

	if t.BPM < 0 {
		t.BPM = 0
	}

	if t.PlayCount < 0 {
		t.PlayCount = 0
	}

	if raw.Duration != nil && *raw.Duration >= 0 {
		d := float64(*raw.Duration)
		t.Duration = &d
	}

	if t.DateAdded == "" {
		t.DateAdded = now.Format(DateLayout)
	}

	if raw.LastPlayed != nil {
		if lp := sanitize(*raw.LastPlayed); lp != "" {
			t.LastPlayed = &lp
		}
	}

	if t.ID == "" {
		t.ID = derivedID(t)
	}

	return t
}

// derivedID returns a stable id for tracks that arrive without one
func derivedID(t *Track) string {
	name := "path:" + t.Path
	if t.Path == "" {
		name = "track:" + strings.ToLower(t.Artist) + "\x00" + strings.ToLower(t.Title)
	}

	return uuid.NewSHA1(trackNamespace, []byte(name)).String()
}

// sanitize strips control characters (terminal escape injection) and surrounding whitespace
func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}

		return r
	}, s)

	return strings.TrimSpace(s)
}

// normalizeList sanitizes entries, drops empties and duplicates, and keeps first-seen order
func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))

	for _, v := range values {
		v = sanitize(v)
		if v == "" || seen[v] {
			continue
		}

		seen[v] = true
		out = append(out, v)
	}

	return out
}

// splitList splits a scalar list value on commas and semicolons
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	})
}

// Compile regexes once at package initialization
var (
	keyRegex    = regexp.MustCompile(`(\d+[AB])\s*-\s*Energy`)
	leadingYear = regexp.MustCompile(`^\d{4}`)
)

// extractKey extracts Camelot key from comments string
// Example: "8A - Energy 6" -> "8A"
func extractKey(comments string) string {
	matches := keyRegex.FindStringSubmatch(comments)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// parseYear reads a year from strings like "1998" or "1998-04-01"
func parseYear(s string) int {
	match := leadingYear.FindString(strings.TrimSpace(s))
	if match == "" {
		return 0
	}

	year, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}

	return year
}
